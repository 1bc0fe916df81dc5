// Package api exposes the rotation over HTTP: request bodies are streamed
// through the same transform the CLI uses.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"rotcat/pkg/buffers"
	"rotcat/pkg/log"
	"rotcat/pkg/mapping"
	"rotcat/pkg/pipeline"
	"rotcat/pkg/transform"
)

type RotateApi struct {
	Api  *echo.Echo
	pool *buffers.BufferPool
}

func NewRotateApi(bufferSize int) *RotateApi {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	rapi := &RotateApi{Api: e, pool: buffers.ForSize(bufferSize)}
	e.POST("/rotate", rapi.Rotate)
	e.GET("/healthz", rapi.Health)
	return rapi
}

func (rapi *RotateApi) Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// mappingFromQuery reads ?offset=N&reverse=bool. Without offset the mapping is ROT13.
func mappingFromQuery(c echo.Context) (mapping.Mapping, error) {
	var offset *int
	if raw := c.QueryParam("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("offset must be a non-negative integer, got %q", raw)
		}
		offset = &n
	}
	reverse := false
	if raw := c.QueryParam("reverse"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("reverse must be a boolean, got %q", raw)
		}
		reverse = b
	}
	return mapping.Select(offset, reverse), nil
}

// Rotate streams the request body back in the response, rotated.
func (rapi *RotateApi) Rotate(c echo.Context) error {
	m, err := mappingFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, echo.MIMEOctetStream)
	resp.WriteHeader(http.StatusOK)

	buf := rapi.pool.Get()
	defer rapi.pool.Put(buf)

	n, err := pipeline.Copy(resp, transform.NewReader(m, c.Request().Body), buf)
	if err != nil {
		// headers are already sent; the client sees a truncated body
		var readErr *pipeline.ReadError
		log.Warn().Err(err).Bool("read_side", errors.As(err, &readErr)).Int64("bytes", n).Msg("rotate request aborted")
		return nil
	}
	log.Debug().Str("policy", mapping.Describe(m)).Int64("bytes", n).Msg("rotate request served")
	return nil
}

// Run blocks serving on addr.
func (rapi *RotateApi) Run(addr string) error {
	log.Info().Str("addr", addr).Msg("rotate api listening")
	if err := rapi.Api.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
