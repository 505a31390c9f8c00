package models

// FormRequest is the JSON body of a site form submission. Only Segment is
// required; every other field defaults to absent. HP is the honeypot: hidden
// on the real form, so a non-empty value means an automated submission.
type FormRequest struct {
	Segment     string `json:"segment" binding:"required"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Message     string `json:"message"`
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	HP          string `json:"hp"`
}
