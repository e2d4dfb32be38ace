package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr    string `default:"" env:"APP_HOST"`
		Port          int    `default:"8080"  env:"APP_PORT"`
		BodyLimitMb   int    `default:"50" env:"APP_BODY_LIMIT_MB"`
		ErrNotifyAddr string `default:"" env:"APP_ERR_NOTIFY_ADDR"`
	}
	Log struct {
		Level string `default:"info" env:"LOG_LEVEL"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"hr-approval" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		BucketName      string `default:"approval-files" env:"S3_BUCKET_NAME"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
	}
	Auth struct {
		// пустой секрет - сотрудник определяется по заголовку X-Employee-Id
		JWTSecret string `default:"" env:"AUTH_JWT_SECRET"`
	}
	Approval struct {
		AdminEmployeeID  int `default:"9001" env:"APPROVAL_ADMIN_EMPLOYEE_ID"`
		DocIDMaxAttempts int `default:"5" env:"APPROVAL_DOC_ID_MAX_ATTEMPTS"`
		LockWaitSec      int `default:"5" env:"APPROVAL_LOCK_WAIT_SEC"`
		NewWindowHours   int `default:"24" env:"APPROVAL_NEW_WINDOW_HOURS"`
	}
	Swagger struct {
		Enabled  *bool  `default:"false" env:"SWAGGER_ENABLED"`
		FilePath string `default:"./docs/swagger.json" env:"SWAGGER_FILE_PATH"`
	}
	Export struct {
		FontDir string `default:"static/font/" env:"EXPORT_FONT_DIR"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf, err := Load(configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}

func Load(files ...string) (*Configuration, error) {
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, files...)
	if err != nil {
		return nil, err
	}
	return conf, nil
}
