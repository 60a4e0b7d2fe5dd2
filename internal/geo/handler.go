package geo

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HandleListStates(c *gin.Context) {
	if code := c.Query("code"); code != "" {
		s, ok := StateByCode(code)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "state not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "state": s})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "states": States})
}

func HandleStateLGAs(c *gin.Context) {
	name := c.Param("name")
	if _, ok := StateByName(name); !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "state not found", "lgas": []string{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "lgas": LGAsByState(name)})
}
