package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/liveclass/quizServer/apikey"
	"github.com/liveclass/quizServer/config"
	"github.com/liveclass/quizServer/quiz"
	"github.com/liveclass/quizServer/server/rr"
	"github.com/liveclass/quizServer/util"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("module", "Server")

type _config struct {
	presenterCIDR   string
	accessLogWriter io.Writer
}

type Instance struct {
	config   *_config
	verifier *apikey.Verifier
	revoked  *apikey.RevocationList
	store    *quiz.Store
}

func NewInstance(cfg *config.Configuration, verifier *apikey.Verifier, revoked *apikey.RevocationList, store *quiz.Store) *Instance {
	return &Instance{
		config: &_config{
			presenterCIDR:   cfg.Auth.PresenterCIDR,
			accessLogWriter: cfg.Log.GetAccessLogWriter(),
		},
		verifier: verifier,
		revoked:  revoked,
		store:    store,
	}
}

func (instance *Instance) Launch(port int) {
	r := instance.buildRouter()

	logger.Info("QuizServer started : listen ", port)
	err := http.ListenAndServe(":"+strconv.Itoa(port), r)
	util.CheckAndDie(err)
}

func (instance *Instance) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if instance.config.accessLogWriter != nil {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log.New(instance.config.accessLogWriter, "", log.LstdFlags), NoColor: false}))
	} else {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.NoCache)
	r.Use(instance.dontPanic)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SetHeader("Content-type", "application/json; charset=utf8"))

	authService := NewAuthService(instance)
	quizService := NewQuizService(instance, authService)

	// Public Group : students poll and answer without credentials
	r.Group(func(r chi.Router) {
		r.Get("/api/pages/{pageID}", quizService.StatusHandler)
		r.Post("/api/pages/{pageID}/answers", quizService.AnswerHandler)
	})

	// Protected Group : presenter mutations
	r.Group(func(r chi.Router) {
		r.Use(authService.ApiKeyAuthenticator)

		r.Post("/api/pages", quizService.CreatePageHandler)
		r.Post("/api/pages/{pageID}/questions", quizService.QuestionHandler)
		r.Post("/api/pages/{pageID}/close-question", quizService.CloseQuestionHandler)
		r.Post("/api/revoke/{tokenID}", authService.RevokeHandler)
	})

	return r
}

// dontPanic
func (instance *Instance) dontPanic(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				logEntry := middleware.GetLogEntry(r)
				if logEntry != nil {
					logEntry.Panic(rvr, debug.Stack())
				} else {
					_, _ = fmt.Fprintf(os.Stderr, "Panic: %+v\n", rvr)
					debug.PrintStack()
				}

				rr.WriteResponseEntity(w, rr.InternalServerErrorResponse)
			}
		}()

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
