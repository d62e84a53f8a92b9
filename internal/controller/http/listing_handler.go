package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"markethub/internal/entity"
	"markethub/internal/usecase"
	"markethub/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingUseCase usecase.ListingUseCase
	logger         *logger.Logger
}

func NewListingHandler(listingUseCase usecase.ListingUseCase, logger *logger.Logger) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
		logger:         logger,
	}
}

// RegisterRoutes mounts the listing endpoints on the given group. The group
// is expected to already carry the auth middleware.
func (h *ListingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	listings := rg.Group("/listings/:type")
	{
		listings.POST("", h.CreateListing)
		listings.GET("", h.ListListings)
		listings.GET("/:id", h.GetListing)
		listings.PUT("/:id", h.UpdateListing)
		listings.PATCH("/:id", h.UpdateListingStatus)
		listings.DELETE("/:id", h.DeleteListing)
	}
}

type ListingRequest struct {
	Name        string  `form:"name" binding:"required"`
	Description string  `form:"description"`
	Price       float64 `form:"price"`
	Currency    string  `form:"currency"`
	AdType      string  `form:"advertisementType"`
	Cadence     string  `form:"paymentMethod"`

	ServicePrice float64 `form:"servicePrice"`

	Brand        string `form:"brand"`
	Model        string `form:"model"`
	Year         int    `form:"year"`
	Mileage      int    `form:"mileage"`
	Transmission string `form:"transmission"`
	FuelType     string `form:"fuelType"`

	Bedrooms  int     `form:"bedrooms"`
	Bathrooms int     `form:"bathrooms"`
	AreaSqm   float64 `form:"areaSqm"`
	Address   string  `form:"address"`
	City      string  `form:"city"`

	IsAdmin bool `form:"isAdmin"`

	// Update-only image controls
	RemovedImageURLs string `form:"removedImageUrls"`
	ReplaceImages    string `form:"replaceImages"`
}

func (r *ListingRequest) fields() usecase.ListingFields {
	return usecase.ListingFields{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Currency:     r.Currency,
		AdType:       r.AdType,
		Cadence:      r.Cadence,
		ServicePrice: r.ServicePrice,
		Brand:        r.Brand,
		Model:        r.Model,
		Year:         r.Year,
		Mileage:      r.Mileage,
		Transmission: r.Transmission,
		FuelType:     r.FuelType,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		AreaSqm:      r.AreaSqm,
		Address:      r.Address,
		City:         r.City,
	}
}

// removedImageURLs accepts either a JSON array or a single bare URL.
func (r *ListingRequest) removedImageURLs() []string {
	if r.RemovedImageURLs == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(r.RemovedImageURLs), &urls); err != nil {
		return []string{r.RemovedImageURLs}
	}
	return urls
}

func listingType(c *gin.Context) (entity.ListingType, bool) {
	t, ok := entity.ParseListingType(c.Param("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown listing type, expected car or house"})
		return "", false
	}
	return t, true
}

// The admin flag on the form is a request, not a grant; it only takes effect
// when the token carries the admin role.
func isAdminRequest(c *gin.Context, requested bool) bool {
	return requested && c.GetString("role") == "admin"
}

// CreateListing godoc
// @Summary      Create a listing
// @Description  Create a car or house listing with images and an optional payment receipt. Admin-created listings go live immediately; user listings start Pending until moderated.
// @Tags         listings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        type path string true "Listing type" Enums(car, house)
// @Param        name formData string true "Listing title"
// @Param        price formData number true "Asking price"
// @Param        advertisementType formData string true "Sale or Rent"
// @Param        paymentMethod formData string false "Rent cadence (Daily/Weekly/Monthly/Yearly or 1-4)"
// @Param        files formData file false "Listing images, order preserved"
// @Param        receipt formData file false "Payment receipt"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /listings/{type} [post]
func (h *ListingHandler) CreateListing(c *gin.Context) {
	lt, ok := listingType(c)
	if !ok {
		return
	}

	var req ListingRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := usecase.CreateListingInput{
		Type:    lt,
		ActorID: c.GetString("user_id"),
		IsAdmin: isAdminRequest(c, req.IsAdmin),
		Fields:  req.fields(),
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		in.Images = form.File["files"]
	}
	if receipt, err := c.FormFile("receipt"); err == nil {
		in.Receipt = receipt
	}

	listing, err := h.listingUseCase.CreateListing(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"listingId": listing.ID,
		"paymentId": listing.PaymentID,
		"listing":   listing,
	})
}

// GetListing godoc
// @Summary      Get a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        type path string true "Listing type" Enums(car, house)
// @Param        id path string true "Listing ID"
// @Success      200  {object}  entity.Listing
// @Failure      404  {object}  map[string]string
// @Router       /listings/{type}/{id} [get]
func (h *ListingHandler) GetListing(c *gin.Context) {
	if _, ok := listingType(c); !ok {
		return
	}

	listing, err := h.listingUseCase.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// ListListings godoc
// @Summary      List listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        type path string true "Listing type" Enums(car, house)
// @Param        status query string false "Filter by status" Enums(Pending, Active, Inactive)
// @Param        limit query int false "Page size (max 100)"
// @Param        offset query int false "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /listings/{type} [get]
func (h *ListingHandler) ListListings(c *gin.Context) {
	lt, ok := listingType(c)
	if !ok {
		return
	}

	limit := 20
	offset := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	listings, err := h.listingUseCase.ListListings(c.Request.Context(), lt, c.Query("status"), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings, "count": len(listings), "offset": offset})
}

// UpdateListing godoc
// @Summary      Update a listing
// @Description  Update listing fields and reconcile its image set. New uploads append unless replaceImages is true; removedImageUrls drops URLs from the existing set. Only the owner or an admin can update.
// @Tags         listings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        type path string true "Listing type" Enums(car, house)
// @Param        id path string true "Listing ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /listings/{type}/{id} [put]
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	if _, ok := listingType(c); !ok {
		return
	}

	var req ListingRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := usecase.UpdateListingInput{
		ID:               c.Param("id"),
		ActorID:          c.GetString("user_id"),
		IsAdmin:          isAdminRequest(c, req.IsAdmin),
		Fields:           req.fields(),
		RemovedImageURLs: req.removedImageURLs(),
		ReplaceImages:    req.ReplaceImages == "true",
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		in.Images = form.File["files"]
	}
	if receipt, err := c.FormFile("receipt"); err == nil {
		in.Receipt = receipt
	}

	listing, warning, err := h.listingUseCase.UpdateListing(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := gin.H{"success": true, "listing": listing}
	if warning != "" {
		response["warning"] = warning
	}
	c.JSON(http.StatusOK, response)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateListingStatus godoc
// @Summary      Moderate a listing
// @Description  Move a listing between Pending and Active.
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        type path string true "Listing type" Enums(car, house)
// @Param        id path string true "Listing ID"
// @Param        request body UpdateStatusRequest true "New status"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /listings/{type}/{id} [patch]
func (h *ListingHandler) UpdateListingStatus(c *gin.Context) {
	if _, ok := listingType(c); !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listingUseCase.UpdateListingStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "listing": listing})
}

// DeleteListing godoc
// @Summary      Delete a listing
// @Description  Delete a listing and sweep its dependent payment, review and notification records. Only the owner or an admin can delete.
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        type path string true "Listing type" Enums(car, house)
// @Param        id path string true "Listing ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /listings/{type}/{id} [delete]
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	if _, ok := listingType(c); !ok {
		return
	}

	isAdmin := isAdminRequest(c, c.Query("isAdmin") == "true" || c.PostForm("isAdmin") == "true")

	result, err := h.listingUseCase.DeleteListing(c.Request.Context(), c.Param("id"), c.GetString("user_id"), isAdmin)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"listingId": result.ListingID,
		"paymentId": result.PaymentID,
	})
}

func (h *ListingHandler) respondError(c *gin.Context, err error) {
	var vErr *usecase.ValidationError
	var upErr *usecase.UploadError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not allowed to act on this listing"})
	case errors.Is(err, usecase.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
	case errors.As(err, &upErr):
		h.logger.Error("asset upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "asset upload failed, nothing was saved, please retry"})
	default:
		h.logger.Error("listing request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
