package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinawise/sinawise-server/internal/repository/shelter"
)

// shelterCreateRequest is the admin body for creating an evacuation post.
type shelterCreateRequest struct {
	Name     string  `json:"nama" binding:"required,min=2"`
	Address  string  `json:"alamat" binding:"required,min=3"`
	Lat      float64 `json:"lat" binding:"required"`
	Lng      float64 `json:"lng" binding:"required"`
	Capacity *int    `json:"kapasitas"`
	Phone    string  `json:"telepon"`
	Notes    string  `json:"keterangan"`
}

// shelterUpdateRequest is the admin body for a partial update.
type shelterUpdateRequest struct {
	Name     *string  `json:"nama"`
	Address  *string  `json:"alamat"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Capacity *int     `json:"kapasitas"`
	Phone    *string  `json:"telepon"`
	Notes    *string  `json:"keterangan"`
}

// listShelters serves GET /evacuation/posts and GET /admin/posts.
func (h *handlers) listShelters(c *gin.Context) {
	posts, err := h.opts.Shelters.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "unable to list evacuation posts")

		return
	}

	if posts == nil {
		posts = []*shelter.Post{}
	}

	c.JSON(http.StatusOK, posts)
}

// createShelter serves POST /admin/posts.
func (h *handlers) createShelter(c *gin.Context) {
	var req shelterCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid evacuation post")

		return
	}

	post := &shelter.Post{
		Name:     req.Name,
		Address:  req.Address,
		Lat:      req.Lat,
		Lng:      req.Lng,
		Capacity: req.Capacity,
		Phone:    req.Phone,
		Notes:    req.Notes,
	}

	if err := h.opts.Shelters.Create(c.Request.Context(), post); err != nil {
		fail(c, http.StatusInternalServerError, "unable to create evacuation post")

		return
	}

	c.JSON(http.StatusOK, post)
}

// updateShelter serves PUT /admin/posts/:id.
func (h *handlers) updateShelter(c *gin.Context) {
	var req shelterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid evacuation post")

		return
	}

	post, err := h.opts.Shelters.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shelter.ErrNotFound) {
			fail(c, http.StatusNotFound, "evacuation post not found")

			return
		}

		fail(c, http.StatusInternalServerError, "unable to load evacuation post")

		return
	}

	applyShelterUpdate(post, &req)

	if err := h.opts.Shelters.Update(c.Request.Context(), post); err != nil {
		fail(c, http.StatusInternalServerError, "unable to update evacuation post")

		return
	}

	c.JSON(http.StatusOK, post)
}

// deleteShelter serves DELETE /admin/posts/:id.
func (h *handlers) deleteShelter(c *gin.Context) {
	err := h.opts.Shelters.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shelter.ErrNotFound) {
			fail(c, http.StatusNotFound, "evacuation post not found")

			return
		}

		fail(c, http.StatusInternalServerError, "unable to delete evacuation post")

		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// applyShelterUpdate copies the provided fields onto the stored post.
func applyShelterUpdate(post *shelter.Post, req *shelterUpdateRequest) {
	if req.Name != nil {
		post.Name = *req.Name
	}

	if req.Address != nil {
		post.Address = *req.Address
	}

	if req.Lat != nil {
		post.Lat = *req.Lat
	}

	if req.Lng != nil {
		post.Lng = *req.Lng
	}

	if req.Capacity != nil {
		post.Capacity = req.Capacity
	}

	if req.Phone != nil {
		post.Phone = *req.Phone
	}

	if req.Notes != nil {
		post.Notes = *req.Notes
	}
}
