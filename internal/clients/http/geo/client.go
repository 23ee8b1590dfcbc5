// Package geo looks up countries and, for Colombia, departments and cities
// for the client registration form.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"
)

const (
	DefaultCountriesURL = "https://countriesnow.space/api/v0.1/countries"
	DefaultColombiaURL  = "https://api-colombia.com/api/v1"

	// Colombia is the only country with department and city lookups.
	Colombia = "Colombia"
)

// Region is a department or city.
type Region struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Client struct {
	countriesURL string
	colombiaURL  string
	httpClient   *http.Client
}

func NewClient(countriesURL, colombiaURL string, httpClient *http.Client) *Client {
	if strings.TrimSpace(countriesURL) == "" {
		countriesURL = DefaultCountriesURL
	}
	if strings.TrimSpace(colombiaURL) == "" {
		colombiaURL = DefaultColombiaURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		countriesURL: strings.TrimSpace(countriesURL),
		colombiaURL:  strings.TrimRight(strings.TrimSpace(colombiaURL), "/"),
		httpClient:   httpClient,
	}
}

// HasDepartments reports whether department lookups apply to country.
func HasDepartments(country string) bool {
	return strings.EqualFold(strings.TrimSpace(country), Colombia)
}

// Countries returns country names sorted alphabetically.
func (c *Client) Countries(ctx context.Context) ([]string, error) {
	var body struct {
		Data []struct {
			Country string `json:"country"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, c.countriesURL, &body); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(body.Data))
	for _, item := range body.Data {
		if name := strings.TrimSpace(item.Country); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Departments returns the departments of Colombia.
func (c *Client) Departments(ctx context.Context) ([]Region, error) {
	var regions []Region
	if err := c.getJSON(ctx, c.colombiaURL+"/Department", &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

// Cities returns the cities of a Colombian department.
func (c *Client) Cities(ctx context.Context, departmentID int) ([]Region, error) {
	if departmentID <= 0 {
		return nil, errors.New("department id must be positive")
	}
	segment, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, strconv.Itoa(departmentID))
	if err != nil {
		return nil, err
	}
	var regions []Region
	if err := c.getJSON(ctx, c.colombiaURL+"/Department/"+segment+"/cities", &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	if c == nil || c.httpClient == nil {
		return errors.New("geo client not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geo lookup %s: %w", endpoint, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, res.Body)
		return fmt.Errorf("geo lookup %s: unexpected status %s", endpoint, res.Status)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode geo lookup %s: %w", endpoint, err)
	}
	return nil
}
