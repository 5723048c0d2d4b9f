package static

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/sirupsen/logrus"
)

// SwaggerHandlerOrPanic returns a handler that serves the JSON document at
// filePath within file verbatim, panicking if the document is missing or
// not valid JSON. Call with static.OpenAPIPath's backing file, e.g.
// static.SwaggerHandlerOrPanic("openapi.json", static.OpenAPIFS).
func SwaggerHandlerOrPanic(filePath string, file embed.FS) http.Handler {
	if h, err := httpHandler(filePath, file); err != nil {
		panic(err)
	} else {
		return h
	}
}

type jsonHandler []byte

func (b jsonHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, err := io.Copy(w, bytes.NewReader([]byte(b)))
	if err != nil {
		logrus.Error(err)
	}
}

func httpHandler(filePath string, files embed.FS) (http.Handler, error) {
	b, err := fs.ReadFile(files, filePath)
	if err != nil {
		return nil, err
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("document does not contain a valid json object")
	}
	return jsonHandler(b), nil
}
