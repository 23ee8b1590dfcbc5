package portalserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NoticeStream serves a session's notices over a long-lived connection.
type NoticeStream interface {
	Serve(w http.ResponseWriter, r *http.Request, sessionID string)
}

type NotificationsAPI struct {
	stream NoticeStream
}

func NewNotificationsAPI(stream NoticeStream) NotificationsAPI {
	return NotificationsAPI{stream: stream}
}

// Get /api/notifications/ws
// Streams the session's notices over WebSocket
func (api *NotificationsAPI) Subscribe(c *gin.Context) {
	if api.stream == nil {
		DefaultHandleFunc(c)
		return
	}
	api.stream.Serve(c.Writer, c.Request, currentSession(c).ID)
}
