package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/liveclass/quizServer/apikey"
	"github.com/liveclass/quizServer/quiz"
	"github.com/liveclass/quizServer/server/rr"
)

// QuizService
type QuizService struct {
	instance    *Instance
	authService *AuthService
}

// NewQuizService
func NewQuizService(instance *Instance, authService *AuthService) *QuizService {
	return &QuizService{instance: instance, authService: authService}
}

// handlerClosure
// closure to simplify http.HandlerFunc
func (svc *QuizService) handlerClosure(rw http.ResponseWriter, req *http.Request, handler func(req *http.Request) rr.ResponseEntity) {
	rr.WriteResponseEntity(rw, handler(req))
}

// protectedClosure
// like handlerClosure but hands the verified presenter claim to the handler
func (svc *QuizService) protectedClosure(rw http.ResponseWriter, req *http.Request, handler func(claim *apikey.Claim, req *http.Request) rr.ResponseEntity) {
	claim, ok := svc.authService.claimFromContext(req.Context())
	if !ok {
		rr.WriteResponseEntity(rw, rr.UnauthorizedResponse)
		return
	}

	rr.WriteResponseEntity(rw, handler(claim, req))
}

// CreatePageHandler
// presenter opens a new quiz page
func (svc *QuizService) CreatePageHandler(rw http.ResponseWriter, req *http.Request) {
	svc.protectedClosure(rw, req, svc.createPage)
}
func (svc *QuizService) createPage(claim *apikey.Claim, req *http.Request) rr.ResponseEntity {
	var request struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	var response struct {
		PageID string `json:"page_id"`
	}

	// Parse request
	if err := rr.ReadRequestBody(req, &request); err != nil {
		return rr.BadRequestResponse
	}

	if request.Title == "" {
		return rr.KoResponse(http.StatusBadRequest, "title is required")
	}

	response.PageID = svc.instance.store.CreatePage(request.Title, request.Description)

	logger.Info("page ", response.PageID, " created by ", claim.Email)

	return rr.OkResponse(response)
}

// StatusHandler
// students poll the sanitized page view, no auth
func (svc *QuizService) StatusHandler(rw http.ResponseWriter, req *http.Request) {
	svc.handlerClosure(rw, req, svc.status)
}
func (svc *QuizService) status(req *http.Request) rr.ResponseEntity {
	view, err := svc.instance.store.Status(chi.URLParam(req, "pageID"))
	if err != nil {
		return quizErrorResponse(err)
	}

	return rr.OkResponse(view)
}

// QuestionHandler
// presenter publishes a question, replacing the previous one and its answers
func (svc *QuizService) QuestionHandler(rw http.ResponseWriter, req *http.Request) {
	svc.protectedClosure(rw, req, svc.publishQuestion)
}
func (svc *QuizService) publishQuestion(claim *apikey.Claim, req *http.Request) rr.ResponseEntity {
	var request quiz.QuestionSpec

	// Parse request
	if err := rr.ReadRequestBody(req, &request); err != nil {
		return rr.BadRequestResponse
	}

	if request.Text == "" || len(request.Options) == 0 {
		return rr.KoResponse(http.StatusBadRequest, "question text and options are required")
	}

	pageID := chi.URLParam(req, "pageID")
	if err := svc.instance.store.PublishQuestion(pageID, request); err != nil {
		return quizErrorResponse(err)
	}

	logger.Info("question published on page ", pageID, " by ", claim.Email)

	return rr.OkResponse(statusSuccess())
}

// AnswerHandler
// student submits an answer, no auth
func (svc *QuizService) AnswerHandler(rw http.ResponseWriter, req *http.Request) {
	svc.handlerClosure(rw, req, svc.submitAnswer)
}
func (svc *QuizService) submitAnswer(req *http.Request) rr.ResponseEntity {
	var request struct {
		OptionIndices []int `json:"option_indices"`
	}

	// Parse request
	if err := rr.ReadRequestBody(req, &request); err != nil {
		return rr.BadRequestResponse
	}

	if err := svc.instance.store.SubmitAnswer(chi.URLParam(req, "pageID"), request.OptionIndices); err != nil {
		return quizErrorResponse(err)
	}

	return rr.OkResponse(statusSuccess())
}

// CloseQuestionHandler
// presenter closes the question and receives the statistics
func (svc *QuizService) CloseQuestionHandler(rw http.ResponseWriter, req *http.Request) {
	svc.protectedClosure(rw, req, svc.closeQuestion)
}
func (svc *QuizService) closeQuestion(claim *apikey.Claim, req *http.Request) rr.ResponseEntity {
	pageID := chi.URLParam(req, "pageID")

	stats, err := svc.instance.store.CloseQuestion(pageID)
	if err != nil {
		return quizErrorResponse(err)
	}

	logger.Info("question closed on page ", pageID, " by ", claim.Email)

	return rr.OkResponse(stats)
}

func statusSuccess() interface{} {
	return struct {
		Status string `json:"status"`
	}{Status: "success"}
}

func quizErrorResponse(err error) rr.ResponseEntity {
	if errors.Is(err, quiz.ErrPageNotFound) {
		return rr.KoResponse(http.StatusNotFound, err.Error())
	}
	return rr.KoResponse(http.StatusBadRequest, err.Error())
}
