package model

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// UpdateUserRequest enumerates the updatable user fields explicitly. Nil
// pointers mean "leave unchanged"; unknown JSON fields are never applied.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

type CreateResourceRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Details string `json:"details"`
}

type UpdateResourceRequest struct {
	Name    *string `json:"name"`
	Type    *string `json:"type"`
	Details *string `json:"details"`
}

type CreateAreaRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	SecurityLevel int    `json:"security_level"`
}

type UpdateAreaRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	SecurityLevel *int    `json:"security_level"`
}

type CreateAccessLogRequest struct {
	UserID string `json:"user_id"`
	AreaID string `json:"area_id"`
	Status string `json:"status"`
}
