package application

// User notices, in the language of the web client.
const (
	MsgConnectionError = "Error de conexión"
	MsgNotFound        = "Orden no encontrada"
	MsgSessionExpired  = "Tu sesión expiró. Inicia sesión nuevamente."
	MsgBadResponse     = "Respuesta inválida del servidor"
	MsgLoadFailed      = "No se pudieron cargar las órdenes"
	MsgMissingToken    = "No se encontró el token de autenticación. Inicia sesión nuevamente."
	MsgEditNoToken     = "No se encontró token. Inicia sesión de nuevo."
	MsgCreateFailed    = "No se pudo crear la orden. Intente nuevamente."
	MsgCreated         = "Orden de trabajo #%s creada exitosamente"
	MsgUpdated         = "Orden actualizada exitosamente"
	MsgUpdateFailed    = "Error al actualizar la orden: "
	MsgDeleted         = "Orden eliminada exitosamente"
	MsgDeleteFailed    = "Error al eliminar la orden: "
)
