package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certpanel/certpanel/core/handler"
	"github.com/certpanel/certpanel/core/response"
	"github.com/certpanel/certpanel/core/router"
)

func TestRouterDispatch(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/hello", func(ctx *router.Context) handler.Response {
		return response.String("world")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "world", rec.Body.String())
}

func TestRouterPathParams(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/jobs/{id}", func(ctx *router.Context) handler.Response {
		return response.String("job=" + ctx.Param("id"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/42", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "job=42", rec.Body.String())
}

func TestRouterLiteralPrecedence(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/export/{id}/{name}/bundle.zip", func(ctx *router.Context) handler.Response {
		return response.String("bundle")
	})
	r.Get("/export/{id}/{name}/{which}", func(ctx *router.Context) handler.Response {
		return response.String("pem:" + ctx.Param("which"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/1/example.com/bundle.zip", nil))
	assert.Equal(t, "bundle", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/1/example.com/privkey", nil))
	assert.Equal(t, "pem:privkey", rec.Body.String())
}

func TestRouterNotFound(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/", func(ctx *router.Context) handler.Response {
		return response.String("home")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterMethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/only-get", func(ctx *router.Context) handler.Response {
		return response.String("ok")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-get", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRouterMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) handler.Middleware[*router.Context] {
		return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				order = append(order, name)
				return next(ctx)
			}
		}
	}

	r := router.New[*router.Context]()
	r.Use(mw("first"), mw("second"))
	r.Get("/", func(ctx *router.Context) handler.Response {
		order = append(order, "handler")
		return response.NoContent()
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRouterUseAfterRoutePanics(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/", func(ctx *router.Context) handler.Response {
		return response.NoContent()
	})

	assert.Panics(t, func() {
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return next
		})
	})
}

func TestRouterPanicRecovery(t *testing.T) {
	t.Parallel()

	var captured error
	r := router.New[*router.Context](
		router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
			captured = err
			ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		}),
	)
	r.Get("/boom", func(ctx *router.Context) handler.Response {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Error(t, captured)

	var panicErr router.PanicError
	require.ErrorAs(t, captured, &panicErr)
	assert.Equal(t, "kaboom", panicErr.Value())
}

func TestRouterErrorHandlerReceivesHTTPError(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/missing", func(ctx *router.Context) handler.Response {
		return response.Error(response.ErrNotFound.WithMessage("missing privkey.pem"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing privkey.pem")
}

func TestRouterRoutes(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/a", func(ctx *router.Context) handler.Response { return response.NoContent() })
	r.Post("/b", func(ctx *router.Context) handler.Response { return response.NoContent() })

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, router.Route{Method: http.MethodGet, Pattern: "/a"}, routes[0])
	assert.Equal(t, router.Route{Method: http.MethodPost, Pattern: "/b"}, routes[1])
}
