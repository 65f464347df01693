package http

// Register godoc
// @Summary Register a customer account
// @Description Creates the account and returns it together with a signed token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string} true "Registration form"
// @Success 201 {object} object{success=bool,data=object{user=object,token=string}}
// @Failure 400 {object} object{success=bool,message=string,error=string}
// @Failure 409 {object} object{success=bool,message=string,error=string}
// @Router /auth/register [post]
func (h *AuthHandler) RegisterDoc() {}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} object{success=bool,data=object{user=object,token=string}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /auth/login [post]
func (h *AuthHandler) LoginDoc() {}

// Me godoc
// @Summary Current account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /auth/me [get]
func (h *AuthHandler) MeDoc() {}

// Stats godoc
// @Summary Account statistics
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,data=object{total_users=int,admin_count=int,customer_count=int}}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /admin/users/stats [get]
func (h *AuthHandler) StatsDoc() {}
