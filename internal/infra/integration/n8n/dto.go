package n8n

type forwardRequest struct {
	Action    string                 `json:"action"`
	Lead      map[string]interface{} `json:"lead"`
	Timestamp string                 `json:"timestamp"`
}
