package docs

import (
	"encoding/json"
	"testing"
)

func TestSwaggerDocRenders(t *testing.T) {
	doc := SwaggerInfo.ReadDoc()

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("rendered swagger doc is not valid JSON: %v", err)
	}

	info, ok := parsed["info"].(map[string]interface{})
	if !ok {
		t.Fatal("rendered doc has no info object")
	}
	if info["title"] != "Fire Backend API" {
		t.Errorf("title = %v, want Fire Backend API", info["title"])
	}
}
