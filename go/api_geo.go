package portalserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/telconova/portal/internal/clients/http/geo"
	apierrors "github.com/telconova/portal/internal/shared/errors"
)

// GeoDirectory is the country, department and city lookup.
type GeoDirectory interface {
	Countries(ctx context.Context) ([]string, error)
	Departments(ctx context.Context) ([]geo.Region, error)
	Cities(ctx context.Context, departmentID int) ([]geo.Region, error)
}

type GeoAPI struct {
	directory GeoDirectory
}

func NewGeoAPI(directory GeoDirectory) GeoAPI {
	return GeoAPI{directory: directory}
}

// Get /api/geo/countries
// Lists country names
func (api *GeoAPI) Countries(c *gin.Context) {
	countries, err := api.directory.Countries(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, countries)
}

// Get /api/geo/departments
// Lists departments of a country; only Colombia has any
func (api *GeoAPI) Departments(c *gin.Context) {
	country := c.DefaultQuery("country", geo.Colombia)
	if !geo.HasDepartments(country) {
		c.JSON(http.StatusOK, []geo.Region{})
		return
	}
	departments, err := api.directory.Departments(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

// Get /api/geo/departments/:departmentId/cities
// Lists cities of a department
func (api *GeoAPI) Cities(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("departmentId"))
	if err != nil || id <= 0 {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("departmentId must be a positive integer"))
		return
	}
	cities, err := api.directory.Cities(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}
