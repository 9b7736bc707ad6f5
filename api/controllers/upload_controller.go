package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nulltale/nulltale-go/tool"
	"github.com/nulltale/nulltale-go/types"
	"github.com/nulltale/nulltale-go/upload"
)

// UserUpload handles a file upload from the web UI.
// POST /api/self/v1/upload/:category
//
// The UI sends the picked or dropped files as a multipart form; only the
// first "file" part is used, matching the one-file-per-attempt contract.
func UserUpload(c *gin.Context) {
	category := c.Param("category")
	if !types.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid file type"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid multipart form: "+err.Error()))
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No file provided"))
		return
	}
	fileHeader := files[0]

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to open uploaded file: "+err.Error()))
		return
	}
	defer func() {
		if err := src.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close uploaded file: %v", err)
		}
	}()

	outcome, err := uploadCoordinator.Upload(c.Request.Context(), types.UploadCategory(category), fileHeader.Filename, src)
	if err != nil {
		if errors.Is(err, upload.ErrUploadInFlight) {
			c.JSON(http.StatusConflict, tool.FastReturnError("An upload is already in progress for this category"))
			return
		}
		c.JSON(http.StatusBadGateway, tool.FastReturnErrorWithData(
			uploadCoordinator.LastError(types.UploadCategory(category)),
			map[string]any{"category": category, "name": fileHeader.Filename},
		))
		return
	}
	if outcome.AwaitingSelection() {
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
			"type":          outcome.Type,
			"zipId":         outcome.ZipID,
			"conversations": outcome.Conversations,
		}))
		return
	}

	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(outcome.Record))
}

// UserSelectZipConversations imports the chosen conversations of an
// uploaded chat export archive.
// POST /api/self/v1/uploads/zip/select
func UserSelectZipConversations(c *gin.Context) {
	var request types.ZipSelectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if request.ZipID == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required field: zip_id"))
		return
	}
	records, err := uploadCoordinator.CompleteZipSelection(c.Request.Context(), request.ZipID, request.Conversations)
	if err != nil {
		if errors.Is(err, upload.ErrUploadInFlight) {
			c.JSON(http.StatusConflict, tool.FastReturnError("An upload is already in progress for this category"))
			return
		}
		c.JSON(http.StatusBadGateway, tool.FastReturnError(uploadCoordinator.LastError(types.CategoryText)))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{"records": records}))
}

// UserUploadState returns the coordinator's bookkeeping for one category.
// GET /api/self/v1/uploads/:category
func UserUploadState(c *gin.Context) {
	category := c.Param("category")
	if !types.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid file type"))
		return
	}
	cat := types.UploadCategory(category)
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
		"status":  uploadCoordinator.Status(cat).String(),
		"records": uploadCoordinator.Records(cat),
		"error":   uploadCoordinator.LastError(cat),
	}))
}

// UserListFiles passes the backend's stored file listing through to the UI.
// GET /api/self/v1/files/:category
func UserListFiles(c *gin.Context) {
	category := c.Param("category")
	if !types.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid file type"))
		return
	}
	resp, err := backendGateway.ListFiles(c.Request.Context(), types.UploadCategory(category))
	if err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Failed to list files: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(resp))
}

// UserDeleteFile removes a stored file on the backend.
// DELETE /api/self/v1/files/:category/:id
func UserDeleteFile(c *gin.Context) {
	category := c.Param("category")
	if !types.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid file type"))
		return
	}
	if err := backendGateway.DeleteFile(c.Request.Context(), types.UploadCategory(category), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Failed to delete file: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// UserSetFileSubject assigns a subject to a stored file on the backend.
// POST /api/self/v1/files/:category/:id/subject
func UserSetFileSubject(c *gin.Context) {
	category := c.Param("category")
	if !types.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid file type"))
		return
	}
	var request struct {
		Subject string `json:"subject"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if request.Subject == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required field: subject"))
		return
	}
	if err := backendGateway.SetFileSubject(c.Request.Context(), types.UploadCategory(category), c.Param("id"), request.Subject); err != nil {
		c.JSON(http.StatusBadGateway, tool.FastReturnError("Failed to set subject: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
