package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route. mediaDir is served under /media when set.
func NewRouter(h *Handler, mediaDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.logger))
	r.MaxMultipartMemory = 10 << 20

	r.NoRoute(func(c *gin.Context) { fail(c, http.StatusNotFound, "route not found") })
	r.NoMethod(func(c *gin.Context) { fail(c, http.StatusMethodNotAllowed, "method not allowed") })
	r.HandleMethodNotAllowed = true

	r.GET("/health/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server is healthy")
	})
	if mediaDir != "" {
		r.Static("/media", mediaDir)
	}

	authed := AuthMiddleware(h.users, h.logger)

	usersGroup := r.Group("/" + common.UsersPrefix)
	usersGroup.POST("signup/", h.SignUp)
	usersGroup.POST("signin/", h.SignIn)
	usersGroup.POST("signout/", authed, h.SignOut)
	usersGroup.GET("profile/", authed, h.Profile)

	categories := r.Group("/"+common.CategoriesPrefix, authed)
	categories.GET("list/", h.ListCategories)
	categories.POST("create/", h.CreateCategory)
	categories.PUT("update/:id/", h.UpdateCategory)
	categories.DELETE("delete/:id/", h.DeleteCategory)

	diariesGroup := r.Group("/"+common.DiariesPrefix, authed)
	diariesGroup.GET("list/", h.ListDiaries)
	diariesGroup.POST("create/", h.CreateDiary)
	diariesGroup.GET("detail/:id/", h.GetDiary)

	return r
}
