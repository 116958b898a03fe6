package server

import (
	"net/http"
	"strings"

	attachmentdomain "github.com/X-CodesTech/wassel-api/internal/attachment/domain"
	auditdomain "github.com/X-CodesTech/wassel-api/internal/audit/domain"
	"github.com/gin-gonic/gin"
)

type requestUploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// @Summary      Request Attachment Upload
// @Description  Issue a presigned upload URL for an order attachment
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id       path  string                true  "Order ID"
// @Param        request  body  requestUploadRequest  true  "Upload Request"
// @Success      200  {object}  attachmentdomain.UploadGrant
// @Router       /orders/{id}/attachments [post]
func (s *Server) RequestAttachmentUpload(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("id"))

	var req requestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.attachmentSvc.RequestUpload(c.Request.Context(), orderID, attachmentdomain.UploadRequest{
		FileName:    strings.TrimSpace(req.FileName),
		ContentType: strings.TrimSpace(req.ContentType),
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditAttachment(c, auditdomain.ActionAttachmentUpload, &resp.Attachment)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Confirm Attachment
// @Description  Mark an attachment uploaded after the client finished its PUT
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Attachment ID"
// @Success      200  {object}  attachmentdomain.Attachment
// @Router       /attachments/{id}/confirm [post]
func (s *Server) ConfirmAttachment(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.attachmentSvc.Confirm(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditAttachment(c, auditdomain.ActionAttachmentConfirm, resp)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Download Attachment
// @Description  Get a presigned download URL for an uploaded attachment
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Attachment ID"
// @Success      200  {object}  map[string]string
// @Router       /attachments/{id}/download [get]
func (s *Server) DownloadAttachment(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	url, err := s.attachmentSvc.DownloadURL(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"downloadUrl": url}})
}

// @Summary      List Order Attachments
// @Description  List attachments of one order
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  []attachmentdomain.Attachment
// @Router       /orders/{id}/attachments [get]
func (s *Server) ListOrderAttachments(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("id"))
	resp, err := s.attachmentSvc.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Attachment
// @Description  Soft delete an attachment and remove its stored object
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Attachment ID"
// @Success      200  {object}  map[string]string
// @Router       /attachments/{id} [delete]
func (s *Server) DeleteAttachment(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.attachmentSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := id
		_ = s.auditSvc.AuditLog(c.Request.Context(), nil, "", nil, auditdomain.ActionAttachmentDelete, "attachment", &targetID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "deleted"}})
}

func (s *Server) auditAttachment(c *gin.Context, action string, record *attachmentdomain.Attachment) {
	if s.auditSvc == nil || record == nil {
		return
	}
	targetID := record.ID.String()
	_ = s.auditSvc.AuditLog(c.Request.Context(), nil, "", nil, action, "attachment", &targetID, map[string]any{
		"order_id":  record.OrderID.String(),
		"file_name": record.FileName,
		"status":    string(record.Status),
	})
}
