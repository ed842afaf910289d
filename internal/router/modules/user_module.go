package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-records-api/internal/interface/http"
)

// UserModule wires the user record endpoints.
// Static segments (search, stats, city, gender) are registered alongside
// the :id parameter routes; Gin resolves them without conflict.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", m.Handler.Create)
		users.GET("", m.Handler.List)
		users.GET("/search", m.Handler.Search)
		users.GET("/stats", m.Handler.Stats)
		users.GET("/city/:city", m.Handler.ByCity)
		users.GET("/gender/:gender", m.Handler.ByGender)
		users.GET("/:id", m.Handler.Get)
		users.POST("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
