package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/anglisano/nametag/logger"
)

var defaultLogger = logger.New("api")

type endpointLoggerFields struct {
	Method string `json:"method"`
	Url    string `json:"url"`
}

const RequestInfoFieldsKey = "request_info"

func makeRequestLogger(request *http.Request) zerolog.Logger {
	fields := endpointLoggerFields{
		Method: request.Method,
		Url:    request.URL.String(),
	}
	return defaultLogger.With().Interface(RequestInfoFieldsKey, fields).Logger()
}
