package dto

// StartChatDTO opens (or finds) the conversation about an ad.
type StartChatDTO struct {
	AdID uint64 `json:"adId" form:"ad_id" binding:"required"`
}

// SendMessageDTO carries one message body over the REST surface. The
// websocket path carries the same body inside its {data, sender} frame.
type SendMessageDTO struct {
	Data string `json:"data" binding:"required,max=2000"`
}

type BlockChatDTO struct {
	Blocked bool `json:"blocked"`
}
