package auth

// LoginRequest is the credential pair posted to /admin/login. The notblank
// rule rejects whitespace-only input before any network call is made.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

// stringField looks up the first present string value among keys, checking the
// top level and then a nested "data" wrapper. Some deployments wrap the login
// payload, some do not.
func stringField(body map[string]interface{}, keys ...string) string {
	if body == nil {
		return ""
	}
	for _, key := range keys {
		if value, ok := body[key].(string); ok && value != "" {
			return value
		}
	}
	if data, ok := body["data"].(map[string]interface{}); ok {
		for _, key := range keys {
			if value, ok := data[key].(string); ok && value != "" {
				return value
			}
		}
	}
	return ""
}

// boolField mirrors stringField for booleans, also accepting the string forms
// "true"/"false" that older backends emit.
func boolField(body map[string]interface{}, key string) bool {
	if body == nil {
		return false
	}
	if value, ok := lookupField(body, key); ok {
		switch v := value.(type) {
		case bool:
			return v
		case string:
			return v == "true"
		}
	}
	return false
}

func lookupField(body map[string]interface{}, key string) (interface{}, bool) {
	if value, ok := body[key]; ok {
		return value, true
	}
	if data, ok := body["data"].(map[string]interface{}); ok {
		if value, ok := data[key]; ok {
			return value, true
		}
	}
	return nil, false
}

// extractToken applies the dual-key, nested-wrapper lookup: "token" or
// "access_token", directly or under "data".
func extractToken(body map[string]interface{}) string {
	return stringField(body, "token", "access_token")
}

// suggestedEndpoint returns the alternate endpoint the server advertised in
// its body, if any. Headers are deliberately ignored.
func suggestedEndpoint(body map[string]interface{}) string {
	return stringField(body, "redirect_to", "redirectTo")
}
