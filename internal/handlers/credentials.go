package handlers

import (
	"net/http"
	"time"

	"github.com/esteban572/first-responder-connect-sub000/internal/middleware"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/esteban572/first-responder-connect-sub000/internal/services"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// GetMyCredentials GET /credentials
func GetMyCredentials(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	credentials, err := services.ListCredentials(userID, userID, time.Now())
	if err != nil {
		logger.Warn().Err(err).Msg("credentials unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"credentials": credentials})
}

// GetUserCredentials GET /credentials/user/:userId — public credentials only
// unless the viewer is the owner.
func GetUserCredentials(c *gin.Context) {
	viewerID := c.MustGet("userId").(string)
	ownerID := c.Param("userId")

	credentials, err := services.ListCredentials(ownerID, viewerID, time.Now())
	if err != nil {
		logger.Warn().Err(err).Msg("credentials unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"credentials": credentials})
}

// CreateCredential POST /credentials
func CreateCredential(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var req struct {
		Type             string     `json:"type"`
		Name             string     `json:"name" binding:"required"`
		IssuingOrg       string     `json:"issuingOrg"`
		IssueDate        time.Time  `json:"issueDate"`
		ExpirationDate   *time.Time `json:"expirationDate"`
		NotificationDays int        `json:"notificationDays"`
		Public           *bool      `json:"public"`
		DocumentURL      string     `json:"documentUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	credential := models.Credential{
		UserID:           userID,
		Type:             req.Type,
		Name:             req.Name,
		IssuingOrg:       req.IssuingOrg,
		IssueDate:        req.IssueDate,
		ExpirationDate:   req.ExpirationDate,
		NotificationDays: req.NotificationDays,
		Public:           req.Public == nil || *req.Public,
		DocumentURL:      req.DocumentURL,
	}
	if err := services.CreateCredential(&credential); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"credential": services.CredentialView{
		Credential: credential,
		Status:     credential.StatusAt(time.Now()),
	}})
}

// UpdateCredential PUT /credentials/:id
func UpdateCredential(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	credentialID := c.Param("id")

	var req struct {
		Type             *string    `json:"type"`
		Name             *string    `json:"name"`
		IssuingOrg       *string    `json:"issuingOrg"`
		IssueDate        *time.Time `json:"issueDate"`
		ExpirationDate   *time.Time `json:"expirationDate"`
		NotificationDays *int       `json:"notificationDays"`
		Public           *bool      `json:"public"`
		DocumentURL      *string    `json:"documentUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := map[string]interface{}{}
	if req.Type != nil {
		patch["type"] = *req.Type
	}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.IssuingOrg != nil {
		patch["issuing_org"] = *req.IssuingOrg
	}
	if req.IssueDate != nil {
		patch["issue_date"] = *req.IssueDate
	}
	if req.ExpirationDate != nil {
		patch["expiration_date"] = *req.ExpirationDate
	}
	if req.NotificationDays != nil {
		patch["notification_days"] = *req.NotificationDays
	}
	if req.Public != nil {
		patch["public"] = *req.Public
	}
	if req.DocumentURL != nil {
		patch["document_url"] = *req.DocumentURL
	}

	credential, err := services.UpdateCredential(userID, credentialID, patch)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"credential": services.CredentialView{
		Credential: *credential,
		Status:     credential.StatusAt(time.Now()),
	}})
}

// DeleteCredential DELETE /credentials/:id
func DeleteCredential(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	credentialID := c.Param("id")

	if err := services.DeleteCredential(userID, credentialID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Credential deleted"})
}

// GetExpiringCredentialCount GET /credentials/expiring-count
func GetExpiringCredentialCount(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	count, err := services.CountExpiringOrExpired(userID, time.Now())
	if err != nil {
		logger.Warn().Err(err).Msg("credential count unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
