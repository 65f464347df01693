package http

// ListProducts godoc
// @Summary List products
// @Description Filter, sort and paginate the catalog
// @Tags Catalog
// @Produce json
// @Param category query string false "Category, All disables the filter"
// @Param min_price query number false "Minimum price (inclusive)"
// @Param max_price query number false "Maximum price (inclusive)"
// @Param min_rating query number false "Minimum rating"
// @Param color query string false "Color variant"
// @Param search query string false "Case-insensitive search over name, description and category"
// @Param in_stock_only query bool false "Only products with stock"
// @Param sort_by query string false "newest, priceLowHigh, priceHighLow or topRated"
// @Param page query int false "1-based page"
// @Param limit query int false "Page size"
// @Success 200 {object} object{success=bool,data=object{products=array,total=int}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/products [get]
func (h *CatalogHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Catalog
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *CatalogHandler) GetProductDoc() {}

// ListReviews godoc
// @Summary List the reviews of a product
// @Tags Catalog
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/products/{id}/reviews [get]
func (h *CatalogHandler) ListReviewsDoc() {}

// ListRelated godoc
// @Summary List up to five products of the same category
// @Tags Catalog
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id}/related [get]
func (h *CatalogHandler) ListRelatedDoc() {}
