package galleryserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router with recovery and request logging installed.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.CustomRecovery(NewProblemResponder("").Recovery(slog.Default())))
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine registers the gallery routes on router. Middleware must already be
// attached, since gin only applies it to routes added afterwards.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not implemented.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions groups the handlers of every API tag.
type ApiHandleFunctions struct {
	// Routes for the image tag
	ImageAPI ImageAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"NewImage",
			http.MethodPost,
			"/v1/users/:userId/images",
			handleFunctions.ImageAPI.NewImage,
		},
		{
			"UpdateImageTags",
			http.MethodPut,
			"/v1/images/:imageId/tags",
			handleFunctions.ImageAPI.UpdateImageTags,
		},
		{
			"UpdateImageTitle",
			http.MethodPut,
			"/v1/images/:imageId/title",
			handleFunctions.ImageAPI.UpdateImageTitle,
		},
		{
			"GetTags",
			http.MethodGet,
			"/v1/tags",
			handleFunctions.ImageAPI.GetTags,
		},
		{
			"GetBrowseData",
			http.MethodGet,
			"/v1/images",
			handleFunctions.ImageAPI.GetBrowseData,
		},
		{
			"GetImage",
			http.MethodGet,
			"/v1/images/:imageId",
			handleFunctions.ImageAPI.GetImage,
		},
		{
			"GetRelatedImages",
			http.MethodGet,
			"/v1/images/:imageId/related",
			handleFunctions.ImageAPI.GetRelatedImages,
		},
	}
}
