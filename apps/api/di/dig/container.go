package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/schoolconnect/apps/api/echo"
	"github.com/trezcool/schoolconnect/core"
	"github.com/trezcool/schoolconnect/core/assignment"
	"github.com/trezcool/schoolconnect/core/attendance"
	"github.com/trezcool/schoolconnect/core/event"
	"github.com/trezcool/schoolconnect/core/grade"
	"github.com/trezcool/schoolconnect/core/message"
	"github.com/trezcool/schoolconnect/core/news"
	"github.com/trezcool/schoolconnect/core/notification"
	"github.com/trezcool/schoolconnect/core/resource"
	"github.com/trezcool/schoolconnect/core/student"
	"github.com/trezcool/schoolconnect/core/user"
	emailsvc "github.com/trezcool/schoolconnect/services/email"
	logsvc "github.com/trezcool/schoolconnect/services/logger"
	"github.com/trezcool/schoolconnect/services/realtime"
	sessionsvc "github.com/trezcool/schoolconnect/services/session"
	"github.com/trezcool/schoolconnect/storage/database"
	inmemdb "github.com/trezcool/schoolconnect/storage/database/inmem"
	sqlxrepos "github.com/trezcool/schoolconnect/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// SQLParam holds the Postgres handle; it is nil with the memory engine.
type SQLParam struct {
	dig.In
	DB *sqlx.DB `optional:"true"`
}

type serverParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Sessions   sessionsvc.Store
	Hub        *realtime.Hub
	Metrics    *echoapi.Metrics

	UserSvc         *user.Service
	StudentSvc      *student.Service
	AttendanceSvc   *attendance.Service
	GradeSvc        *grade.Service
	AssignmentSvc   *assignment.Service
	MessageSvc      *message.Service
	EventSvc        *event.Service
	NewsSvc         *news.Service
	ResourceSvc     *resource.Service
	NotificationSvc *notification.Service
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newMemDB(conf *core.Config, loggerParam DBLoggerParam) *inmemdb.DB {
	db, err := inmemdb.Open(conf.Database.Seed)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("seeding database: %v", err), err)
	}
	return db
}

func newSQLDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	if conf.Database.Engine != core.EnginePostgres {
		return nil
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newUserRepository(memDB *inmemdb.DB, sqlParam SQLParam) user.Repository {
	if sqlParam.DB != nil {
		return sqlxrepos.NewUserRepository(sqlParam.DB)
	}
	return inmemdb.NewUserRepository(memDB)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator)
	return validate
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.TestMode {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newHub(logger core.Logger, metrics *echoapi.Metrics) *realtime.Hub {
	return realtime.NewHub(logger, realtime.WithMetrics(metrics))
}

func newServerOptions(p serverParams) *echoapi.Options {
	return &echoapi.Options{
		Conf:            p.Conf,
		Logger:          p.Logger,
		Validate:        p.Validate,
		Translator:      p.Translator,
		Sessions:        p.Sessions,
		Hub:             p.Hub,
		Metrics:         p.Metrics,
		UserSvc:         p.UserSvc,
		StudentSvc:      p.StudentSvc,
		AttendanceSvc:   p.AttendanceSvc,
		GradeSvc:        p.GradeSvc,
		AssignmentSvc:   p.AssignmentSvc,
		MessageSvc:      p.MessageSvc,
		EventSvc:        p.EventSvc,
		NewsSvc:         p.NewsSvc,
		ResourceSvc:     p.ResourceSvc,
		NotificationSvc: p.NotificationSvc,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	// config, logging & validation
	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))

	// storage
	must(c.Provide(newMemDB))
	must(c.Provide(newSQLDB))
	must(c.Provide(newUserRepository))
	must(c.Provide(inmemdb.NewStudentRepository))
	must(c.Provide(inmemdb.NewAttendanceRepository))
	must(c.Provide(inmemdb.NewGradeRepository))
	must(c.Provide(inmemdb.NewAssignmentRepository))
	must(c.Provide(inmemdb.NewMessageRepository))
	must(c.Provide(inmemdb.NewEventRepository))
	must(c.Provide(inmemdb.NewNewsRepository))
	must(c.Provide(inmemdb.NewResourceRepository))
	must(c.Provide(inmemdb.NewNotificationRepository))

	// services
	must(c.Provide(newEmailService))
	must(c.Provide(sessionsvc.NewStore))
	must(c.Provide(echoapi.NewMetrics))
	must(c.Provide(newHub))
	must(c.Provide(user.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(attendance.NewService))
	must(c.Provide(grade.NewService))
	must(c.Provide(assignment.NewService))
	must(c.Provide(message.NewService))
	must(c.Provide(event.NewService))
	must(c.Provide(news.NewService))
	must(c.Provide(resource.NewService))
	must(c.Provide(notification.NewService))

	// api
	must(c.Provide(newServerOptions))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
