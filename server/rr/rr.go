package rr

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/liveclass/quizServer/util"
)

/*
ResponseEntity
*/

type ResponseEntity struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

var UnauthorizedResponse = KoResponse(http.StatusForbidden, "Invalid API key")

var BadRequestResponse = KoResponse(http.StatusBadRequest, "")

var InternalServerErrorResponse = KoResponse(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))

func ErrorResponse(err error) ResponseEntity {
	return KoResponse(http.StatusInternalServerError, err.Error())
}

func KoResponse(statusCode int, message string) ResponseEntity {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return ResponseEntity{Code: statusCode, Message: message, Data: nil}
}

func OkResponse(data interface{}) ResponseEntity {
	return ResponseEntity{Code: http.StatusOK, Message: "OK", Data: data}
}

func WriteResponseEntity(rw http.ResponseWriter, entity ResponseEntity) {
	resBytes, err := json.Marshal(entity)
	util.CheckAndPanic(err)

	rw.WriteHeader(entity.Code)

	_, err = rw.Write(resBytes)
	util.CheckAndPanic(err)
}

func ReadRequestBody(req *http.Request, body interface{}) error {
	bytes, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, body)
}
