package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/liveclass/quizServer/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const CONFIGFILE = "config.json"

type Configuration struct {
	Log  LogConfig  `json:"log"`
	Auth AuthConfig `json:"auth"`
	Quiz QuizConfig `json:"quiz"`
}

type LogConfig struct {
	Path       string `json:"path"`
	AccessLog  string `json:"access"`
	ServiceLog string `json:"service"`
}

type AuthConfig struct {
	// PEM file holding the ed25519 verification key, loaded once at startup
	PublicKeyPath string `json:"publicKeyPath"`

	// optional CIDR range allowed to call presenter endpoints, empty = no restriction
	PresenterCIDR string `json:"presenterCIDR"`
}

type QuizConfig struct {
	// page TTL in seconds, 0 = pages live for the process lifetime
	PageExpires int `json:"pageExpires"`
}

func GetConfig(path string) (*Configuration, error) {
	if !util.File.Exists(path) {
		return nil, errors.New("config not found : " + path)
	}

	cBytes, e := util.File.Read(path)
	if e != nil {
		return nil, errors.Wrap(e, "cannot read config")
	}

	config := &Configuration{}

	e = json.Unmarshal(cBytes, config)
	if e != nil {
		return nil, errors.Wrap(e, "malformed config")
	}

	if config.Auth.PublicKeyPath == "" {
		config.Auth.PublicKeyPath = "public.pem"
	}

	setLogger(&config.Log)

	return config, nil
}

func setLogger(cfg *LogConfig) {
	logrus.SetOutput(os.Stdout)

	if cfg.ServiceLog != "" {
		path := getLogPath(cfg)
		if path != "" {
			if file, err := os.OpenFile(path+"/"+cfg.ServiceLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
				logrus.SetOutput(io.MultiWriter(file, os.Stdout))
			} else {
				logrus.Warn("Failed to open service log to file, using default stdout")
			}
		}
	}
}

func (cfg *LogConfig) GetAccessLogWriter() io.Writer {
	if cfg.AccessLog != "" {
		path := getLogPath(cfg)
		if path != "" {
			file, err := os.OpenFile(path+"/"+cfg.AccessLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err == nil {
				return io.MultiWriter(file, os.Stdout)
			}
			logrus.Warn("Failed to open access log to file, using default stdout")
		}
	}
	return nil
}

func getLogPath(cfg *LogConfig) string {
	var path = cfg.Path

	if path == "" {
		path = "."
	}

	if !strings.HasPrefix(path, "/") {
		ex, err := os.Executable()
		util.CheckAndDie(err)

		path = filepath.Dir(ex) + "/" + path
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		err = os.Mkdir(path, 0755)
		if err != nil {
			logrus.Warn("Cannot make log directory")
			return ""
		}
	}

	return path
}
