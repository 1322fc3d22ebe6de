package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinawise/sinawise-server/internal/repository/video"
)

// videoCreateRequest is the admin body for creating an education video.
type videoCreateRequest struct {
	Title string `json:"judul" binding:"required,min=2"`
	URL   string `json:"url" binding:"required,url"`
	Notes string `json:"keterangan"`
}

// videoUpdateRequest is the admin body for a partial update.
type videoUpdateRequest struct {
	Title *string `json:"judul"`
	URL   *string `json:"url"`
	Notes *string `json:"keterangan"`
}

// listVideos serves GET /education/videos and GET /admin/videos.
func (h *handlers) listVideos(c *gin.Context) {
	videos, err := h.opts.Videos.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "unable to list videos")

		return
	}

	if videos == nil {
		videos = []*video.Video{}
	}

	c.JSON(http.StatusOK, videos)
}

// createVideo serves POST /admin/videos.
func (h *handlers) createVideo(c *gin.Context) {
	var req videoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid video")

		return
	}

	v := &video.Video{
		Title: req.Title,
		URL:   req.URL,
		Notes: req.Notes,
	}

	if err := h.opts.Videos.Create(c.Request.Context(), v); err != nil {
		fail(c, http.StatusInternalServerError, "unable to create video")

		return
	}

	c.JSON(http.StatusOK, v)
}

// updateVideo serves PUT /admin/videos/:id.
func (h *handlers) updateVideo(c *gin.Context) {
	var req videoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid video")

		return
	}

	v, err := h.opts.Videos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, video.ErrNotFound) {
			fail(c, http.StatusNotFound, "video not found")

			return
		}

		fail(c, http.StatusInternalServerError, "unable to load video")

		return
	}

	if req.Title != nil {
		v.Title = *req.Title
	}

	if req.URL != nil {
		v.URL = *req.URL
	}

	if req.Notes != nil {
		v.Notes = *req.Notes
	}

	if err := h.opts.Videos.Update(c.Request.Context(), v); err != nil {
		fail(c, http.StatusInternalServerError, "unable to update video")

		return
	}

	c.JSON(http.StatusOK, v)
}

// deleteVideo serves DELETE /admin/videos/:id.
func (h *handlers) deleteVideo(c *gin.Context) {
	err := h.opts.Videos.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, video.ErrNotFound) {
			fail(c, http.StatusNotFound, "video not found")

			return
		}

		fail(c, http.StatusInternalServerError, "unable to delete video")

		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
