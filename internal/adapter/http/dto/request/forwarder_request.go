package request

type RegisterForwarderRequest struct {
	Name string `json:"name" binding:"required"`
}

type SetForwarderActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type ListNotificationsRequest struct {
	Limit int `form:"limit"`
}
