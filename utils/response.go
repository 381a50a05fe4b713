package utils

import "github.com/gin-gonic/gin"

func SuccessResponse(message string, data interface{}) gin.H {
	res := gin.H{"success": true, "message": message}
	if data != nil {
		res["data"] = data
	}
	return res
}

func ErrorResponse(message string) gin.H {
	return gin.H{"success": false, "message": message}
}

// FieldErrorResponse is the validation envelope: fields lists every
// offending request key.
func FieldErrorResponse(message string, fields []string) gin.H {
	res := ErrorResponse(message)
	res["fields"] = fields
	return res
}
