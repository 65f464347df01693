package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for the storefront
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// GetCart godoc
// @Summary Cart of the session
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string false "Session id; a new one is issued when absent"
// @Success 200 {object} object{success=bool,data=object{items=[]object,saved=[]object,count=int,subtotal=string,open=bool}}
// @Router /api/cart [get]
func (h *StorefrontHandler) GetCartDoc() {}

// AddToCart godoc
// @Summary Add a product to the cart
// @Description Adding a product already in the cart increases its quantity
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Session id"
// @Param request body object{product_id=int,quantity=int} true "Product and quantity"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/cart/items [post]
func (h *StorefrontHandler) AddToCartDoc() {}

// UpdateQuantity godoc
// @Summary Change a cart line quantity
// @Description The quantity never drops below 1
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body object{delta=int} true "Quantity change"
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/cart/items/{id} [patch]
func (h *StorefrontHandler) UpdateQuantityDoc() {}

// SaveForLater godoc
// @Summary Move a cart line to the saved list
// @Tags Cart
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/cart/items/{id}/save [post]
func (h *StorefrontHandler) SaveForLaterDoc() {}

// GetBrowse godoc
// @Summary Product grid state
// @Description Filters, page and the latest result. With wait=true the call blocks until the pending fetch lands
// @Tags Browse
// @Produce json
// @Param wait query bool false "Wait for the pending fetch"
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/browse [get]
func (h *StorefrontHandler) GetBrowseDoc() {}

// SetFilters godoc
// @Summary Replace the filters
// @Description Returns to page 1 and schedules a debounced fetch
// @Tags Browse
// @Accept json
// @Produce json
// @Param request body object{category=string,min_price=number,max_price=number,min_rating=number,color=string,search=string,in_stock_only=bool,sort_by=string} true "Filter spec"
// @Success 202 {object} object{success=bool,data=object}
// @Router /api/browse/filters [put]
func (h *StorefrontHandler) SetFiltersDoc() {}

// SendChat godoc
// @Summary Send a chat message to the stylist
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body object{text=string} true "Message"
// @Success 200 {object} object{success=bool,data=object{state=string,transcript=[]object}}
// @Failure 409 {object} object{success=bool,error=string} "Empty message or a reply is pending"
// @Router /api/chat [post]
func (h *StorefrontHandler) SendChatDoc() {}

// AssistantReply godoc
// @Summary One-off styling answer
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body object{message=string} true "Question"
// @Success 200 {object} object{success=bool,data=object{reply=string}}
// @Router /api/assistant/reply [post]
func (h *StorefrontHandler) AssistantReplyDoc() {}

// Login godoc
// @Summary Sign in
// @Tags Account
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} object{success=bool,data=object{user=object,redirect=string}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/auth/login [post]
func (h *StorefrontHandler) LoginDoc() {}

// Register godoc
// @Summary Create an account
// @Tags Account
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string,confirm_password=string} true "Registration form"
// @Success 201 {object} object{success=bool,data=object{user=object,redirect=string}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/auth/register [post]
func (h *StorefrontHandler) RegisterDoc() {}

// AuthorizeRoute godoc
// @Summary Decide whether the session may open a route
// @Tags Account
// @Produce json
// @Param route query string true "Route such as /profile?tab=orders"
// @Success 200 {object} object{success=bool,data=object{allowed=bool,redirect=string,status=int,tab=string}}
// @Router /api/routes/authorize [get]
func (h *StorefrontHandler) AuthorizeRouteDoc() {}

// CreateAddress godoc
// @Summary Add an address
// @Description A new default address clears the previous default
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body object{label=string,street=string,city=string,state=string,zip_code=string,country=string,is_default=bool} true "Address"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/profile/addresses [post]
func (h *StorefrontHandler) CreateAddressDoc() {}

// CreatePayment godoc
// @Summary Add a payment method
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body object{network=string,last4=string,expiry=string,card_holder=string,is_default=bool} true "Card"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/profile/payments [post]
func (h *StorefrontHandler) CreatePaymentDoc() {}

// AdminStats godoc
// @Summary Admin dashboard
// @Tags Admin
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/admin/stats [get]
func (h *StorefrontHandler) AdminStatsDoc() {}
