package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "success",
		"data": data,
	})
}

// Error 错误响应（HTTP状态码与业务码保持一致）
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"code": status,
		"msg":  msg,
		"data": nil,
	})
}
