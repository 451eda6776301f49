package server

import (
	"context"
	"errors"
	"time"

	"MediCareHMS/cache"
	"MediCareHMS/config"
	"MediCareHMS/db"
	"MediCareHMS/events"
	"MediCareHMS/mailer"
	"MediCareHMS/repository"
	"MediCareHMS/routes"
	"MediCareHMS/services"
	"MediCareHMS/token"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrMongoDisabled = errors.New("MongoDB must be enabled to wire the app")

// App holds the wired dependencies of one running process.
type App struct {
	Config   *config.Config
	DB       *mongo.Database
	Cache    cache.Cache
	Bus      *events.MemoryBus
	Services routes.Services
	Seeder   *services.Seeder

	closers []func()
}

// OnShutdown registers fn to run, last registered first, when the app closes.
func (a *App) OnShutdown(fn func()) {
	a.closers = append(a.closers, fn)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

/*
* Connect to MongoDB, every store lives there
* Use redis when REDIS_URL is set, the in-process cache otherwise
* Wire repositories into services
 */
func NewApp(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if !opts.MongoEnabled {
		return nil, ErrMongoDisabled
	}
	database, err := db.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Error().Err(err).Msg("Error connecting to MongoDB")
		return nil, err
	}

	var c cache.Cache = cache.NewMemory(cfg.Cache.Size, cfg.Cache.TTL)
	var rc *cache.Redis
	if opts.CacheEnabled && cfg.CacheEnabled() {
		r, err := cache.NewRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-process cache")
		} else {
			c, rc = r, r
		}
	}

	app := Build(cfg, database, c)
	if rc != nil {
		app.OnShutdown(func() {
			if err := rc.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing redis")
			}
		})
	}
	app.OnShutdown(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("Error disconnecting MongoDB")
		}
	})
	return app, nil
}

// Build wires every service on top of an already opened database and cache.
func Build(cfg *config.Config, database *mongo.Database, c cache.Cache) *App {
	loc := cfg.Location()
	ttl := cfg.Cache.TTL
	bus := events.NewMemoryBus()
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	var mail *mailer.SMTP
	if cfg.MailEnabled() {
		mail = mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}

	users := repository.NewUsers(database)
	patients := repository.NewPatients(database)
	doctors := repository.NewDoctors(database)
	appointments := repository.NewAppointments(database)

	notifier := &services.NotificationService{
		Notifications: repository.NewNotifications(database),
		Users:         users,
	}
	billing := &services.BillService{
		Bills:        repository.NewBills(database),
		Patients:     patients,
		Appointments: appointments,
		Notifier:     notifier,
	}
	if mail != nil {
		notifier.Mailer = mail
		billing.Mailer = mail
	}

	auth := &services.AuthService{
		Users:    users,
		Admins:   repository.NewAllowedAdmins(database),
		Patients: patients,
		Doctors:  doctors,
		Tokens:   tokens,
	}
	doctorSvc := &services.DoctorService{Doctors: doctors, Users: users, Auth: auth, Cache: c, TTL: ttl}
	appointmentSvc := &services.AppointmentService{
		Appointments: appointments,
		Patients:     patients,
		Doctors:      doctors,
		Notifier:     notifier,
		Cache:        c,
		TTL:          ttl,
		Bus:          bus,
		Location:     loc,
	}
	specializations := &services.CatalogService{
		Name:  db.SpecializationCollection,
		Store: repository.NewCatalog(database, db.SpecializationCollection),
		Cache: c,
		TTL:   ttl,
	}
	departments := &services.CatalogService{
		Name:  db.DepartmentCollection,
		Store: repository.NewCatalog(database, db.DepartmentCollection),
		Cache: c,
		TTL:   ttl,
	}

	app := &App{
		Config: cfg,
		DB:     database,
		Cache:  c,
		Bus:    bus,
		Services: routes.Services{
			Tokens:          tokens,
			Bus:             bus,
			Auth:            auth,
			Patients:        &services.PatientService{Patients: patients, Users: users},
			Doctors:         doctorSvc,
			Appointments:    appointmentSvc,
			Billing:         billing,
			Notifications:   notifier,
			Specializations: specializations,
			Departments:     departments,
			AllowedOrigins:  cfg.HTTP.CORSOrigins,
		},
		Seeder: &services.Seeder{
			Auth:            auth,
			Doctors:         doctorSvc,
			Specializations: specializations,
			Departments:     departments,
		},
	}
	app.OnShutdown(appointmentSvc.DropSlotsOnCancel())
	return app
}
