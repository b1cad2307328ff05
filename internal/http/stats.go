package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/digcfo/stats-service/internal/metrics"
	"github.com/digcfo/stats-service/internal/repository"
	"github.com/digcfo/stats-service/internal/stats"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const defaultNamePrefix = "XXXX"

func getSummaryHandler(svc stats.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		summary, err := svc.Summary(c.Request().Context())
		if err != nil {
			metrics.StatsRequestsTotal.WithLabelValues("summary", "error").Inc()
			log.Errorf("summary failed: %v", err)

			if errors.Is(err, repository.ErrNoSummaryRow) {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "no summary data"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		metrics.StatsRequestsTotal.WithLabelValues("summary", "ok").Inc()
		return c.JSON(http.StatusOK, summary)
	}
}

func listCustomersHandler(svc stats.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		customers, err := svc.Customers(c.Request().Context())
		if err != nil {
			metrics.StatsRequestsTotal.WithLabelValues("customers", "error").Inc()
			log.Errorf("customers failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		metrics.StatsRequestsTotal.WithLabelValues("customers", "ok").Inc()
		return c.JSON(http.StatusOK, customers)
	}
}

func lookupOrganizationHandler(svc stats.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := strings.TrimSpace(c.QueryParam("orgNumber"))
		orgNumber, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "orgNumber must be an integer"})
		}

		result, err := svc.LookupOrganization(c.Request().Context(), orgNumber)
		if err != nil {
			metrics.StatsRequestsTotal.WithLabelValues("lookup", "error").Inc()
			c.Logger().Errorf("organization lookup failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}
		if result == nil {
			metrics.StatsRequestsTotal.WithLabelValues("lookup", "not_found").Inc()

			return c.JSON(http.StatusNotFound, map[string]any{
				"orgNumber": orgNumber,
				"message":   "organization number not found",
			})
		}

		metrics.StatsRequestsTotal.WithLabelValues("lookup", "ok").Inc()
		return c.JSON(http.StatusOK, result)
	}
}

func deletedFlagsHandler(svc stats.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		prefix := strings.TrimSpace(c.QueryParam("namePrefix"))
		if prefix == "" {
			prefix = defaultNamePrefix
		}

		results, err := svc.DeletedFlagSummaries(c.Request().Context(), prefix)
		if err != nil {
			metrics.StatsRequestsTotal.WithLabelValues("deleted_flags", "error").Inc()
			c.Logger().Errorf("deleted flags failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		metrics.StatsRequestsTotal.WithLabelValues("deleted_flags", "ok").Inc()
		return c.JSON(http.StatusOK, results)
	}
}
