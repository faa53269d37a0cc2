package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

const maxFormMemory = 32 << 20

// SanitizeInput strips markup from every string field of JSON bodies and
// from every form value, except the keys listed in skip.
func SanitizeInput(skip ...string) gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	skipped := make(map[string]bool, len(skip))
	for _, k := range skip {
		skipped[k] = true
	}
	clean := func(s string) string {
		return html.UnescapeString(policy.Sanitize(s))
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		ct := c.ContentType()
		switch {
		case ct == gin.MIMEJSON:
			buf, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
				return
			}
			var body map[string]interface{}
			if err := json.Unmarshal(buf, &body); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
				return
			}
			for k, v := range body {
				if str, ok := v.(string); ok && !skipped[k] {
					body[k] = clean(str)
				}
			}
			newBody, _ := json.Marshal(body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(newBody))
			c.Request.ContentLength = int64(len(newBody))

		case ct == gin.MIMEPOSTForm, strings.HasPrefix(ct, gin.MIMEMultipartPOSTForm):
			var err error
			if ct == gin.MIMEPOSTForm {
				err = c.Request.ParseForm()
			} else {
				err = c.Request.ParseMultipartForm(maxFormMemory)
			}
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed form"})
				return
			}
			sanitizeValues(c.Request.PostForm, skipped, clean)
			sanitizeValues(c.Request.Form, skipped, clean)
			if c.Request.MultipartForm != nil {
				sanitizeValues(c.Request.MultipartForm.Value, skipped, clean)
			}
		}

		c.Next()
	}
}

func sanitizeValues(v url.Values, skipped map[string]bool, clean func(string) string) {
	for k, vals := range v {
		if skipped[k] {
			continue
		}
		for i, s := range vals {
			vals[i] = clean(s)
		}
	}
}
