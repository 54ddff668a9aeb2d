package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// VersionMiddleware resolves the API version a request targets and tags
// responses with it. Only v1 exists today; the indirection keeps room for a
// versioned breaking change to the listing shapes.
type VersionMiddleware struct {
	supported      map[string]bool
	defaultVersion string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supported:      map[string]bool{"v1": true},
		defaultVersion: "v1",
	}
}

// APIVersionResolver resolves the version from an optional /vN path prefix,
// rejecting unsupported versions and defaulting otherwise.
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := extractVersionFromPath(c.Request().URL.Path)
			if version != "" && !vm.supported[version] {
				return c.JSON(http.StatusNotFound, map[string]string{
					"error":              "Unsupported API version",
					"supported_versions": strings.Join(vm.supportedVersions(), ", "),
				})
			}
			if version == "" {
				version = vm.defaultVersion
			}
			c.Set("api_version", version)
			c.Response().Header().Set("X-API-Version", version)
			return next(c)
		}
	}
}

func (vm *VersionMiddleware) supportedVersions() []string {
	versions := make([]string, 0, len(vm.supported))
	for version := range vm.supported {
		versions = append(versions, version)
	}
	return versions
}

// extractVersionFromPath matches a leading /vN segment.
func extractVersionFromPath(path string) string {
	if len(path) >= 3 && path[0] == '/' && path[1] == 'v' {
		if n, err := strconv.Atoi(path[2:3]); err == nil && n > 0 {
			return "v" + strconv.Itoa(n)
		}
	}
	return ""
}
