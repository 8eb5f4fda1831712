package router

import "github.com/gin-gonic/gin"

// Module registers one feature's routes (auth, users, products, debug).
type Module interface {
	Register(rg *gin.RouterGroup)
}
