package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"MediCareHMS/models"
	"MediCareHMS/repository"
	"MediCareHMS/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ensure(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

type fakeUsers struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if x.Email == u.Email {
			return util.Conflict(util.EMAIL_ALREADY_EXISTS)
		}
	}
	ensure(&u.ID)
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, util.NotFound(util.USER_NOT_FOUND)
	}
	return &u, nil
}

func (f *fakeUsers) FindByLogin(_ context.Context, identifier string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == strings.ToLower(identifier) || u.Username == identifier {
			u := u
			return &u, nil
		}
	}
	return nil, util.NotFound(util.USER_NOT_FOUND)
}

func (f *fakeUsers) Taken(_ context.Context, username, email string) (bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var un, em bool
	for _, u := range f.byID {
		un = un || (username != "" && u.Username == username)
		em = em || (email != "" && u.Email == strings.ToLower(email))
	}
	return un, em, nil
}

func (f *fakeUsers) Replace(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return util.NotFound(util.USER_NOT_FOUND)
	}
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

type fakeAdmins struct {
	emails map[string]string
}

func (f *fakeAdmins) IsAllowed(_ context.Context, email string) (bool, error) {
	_, ok := f.emails[strings.ToLower(email)]
	return ok, nil
}

func (f *fakeAdmins) Upsert(_ context.Context, a models.AllowedAdmin) error {
	if f.emails == nil {
		f.emails = map[string]string{}
	}
	f.emails[strings.ToLower(a.Email)] = a.Name
	return nil
}

type fakePatients struct {
	byID map[primitive.ObjectID]models.Patient
}

func newFakePatients() *fakePatients {
	return &fakePatients{byID: map[primitive.ObjectID]models.Patient{}}
}

func (f *fakePatients) Create(_ context.Context, p *models.Patient) error {
	ensure(&p.ID)
	f.byID[p.ID] = *p
	return nil
}

func (f *fakePatients) FindByID(_ context.Context, id primitive.ObjectID) (*models.Patient, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, util.NotFound(util.PATIENT_NOT_FOUND)
	}
	return &p, nil
}

func (f *fakePatients) FindByUser(_ context.Context, user primitive.ObjectID) (*models.Patient, error) {
	for _, p := range f.byID {
		if p.User == user {
			p := p
			return &p, nil
		}
	}
	return nil, util.NotFound(util.PATIENT_NOT_FOUND)
}

func (f *fakePatients) List(context.Context) ([]models.Patient, error) {
	out := []models.Patient{}
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePatients) Replace(_ context.Context, p *models.Patient) error {
	if _, ok := f.byID[p.ID]; !ok {
		return util.NotFound(util.PATIENT_NOT_FOUND)
	}
	f.byID[p.ID] = *p
	return nil
}

func (f *fakePatients) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return util.NotFound(util.PATIENT_NOT_FOUND)
	}
	delete(f.byID, id)
	return nil
}

type fakeDoctors struct {
	byID  map[primitive.ObjectID]models.Doctor
	reads int
}

func newFakeDoctors() *fakeDoctors {
	return &fakeDoctors{byID: map[primitive.ObjectID]models.Doctor{}}
}

func (f *fakeDoctors) Create(_ context.Context, d *models.Doctor) error {
	ensure(&d.ID)
	f.byID[d.ID] = *d
	return nil
}

func (f *fakeDoctors) FindByID(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	f.reads++
	d, ok := f.byID[id]
	if !ok {
		return nil, util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	return &d, nil
}

func (f *fakeDoctors) FindByUser(_ context.Context, user primitive.ObjectID) (*models.Doctor, error) {
	for _, d := range f.byID {
		if d.User == user {
			d := d
			return &d, nil
		}
	}
	return nil, util.NotFound(util.DOCTOR_NOT_FOUND)
}

func (f *fakeDoctors) List(_ context.Context, filter repository.DoctorFilter) ([]models.Doctor, error) {
	out := []models.Doctor{}
	for _, d := range f.byID {
		if filter.Specialization != "" && d.Specialization != filter.Specialization {
			continue
		}
		if filter.Department != "" && d.Department != filter.Department {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeDoctors) Replace(_ context.Context, d *models.Doctor) error {
	if _, ok := f.byID[d.ID]; !ok {
		return util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	f.byID[d.ID] = *d
	return nil
}

func (f *fakeDoctors) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return util.NotFound(util.DOCTOR_NOT_FOUND)
	}
	delete(f.byID, id)
	return nil
}

type fakeAppointments struct {
	byID map[primitive.ObjectID]models.Appointment
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{byID: map[primitive.ObjectID]models.Appointment{}}
}

func (f *fakeAppointments) Create(_ context.Context, a *models.Appointment) error {
	ensure(&a.ID)
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAppointments) FindByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, util.NotFound(util.APPOINTMENT_NOT_FOUND)
	}
	return &a, nil
}

func (f *fakeAppointments) List(_ context.Context, filter repository.AppointmentFilter) ([]models.Appointment, error) {
	out := []models.Appointment{}
	for _, a := range f.byID {
		if filter.Patient != nil && a.Patient != *filter.Patient {
			continue
		}
		if filter.Doctor != nil && a.Doctor != *filter.Doctor {
			continue
		}
		if filter.Date != nil && a.Date.UTC().Format(time.DateOnly) != filter.Date.UTC().Format(time.DateOnly) {
			continue
		}
		if filter.NotStatus != "" && a.Status == filter.NotStatus {
			continue
		}
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, a.Status) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeAppointments) Replace(_ context.Context, a *models.Appointment) error {
	if _, ok := f.byID[a.ID]; !ok {
		return util.NotFound(util.APPOINTMENT_NOT_FOUND)
	}
	f.byID[a.ID] = *a
	return nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

type fakeBills struct {
	byID map[primitive.ObjectID]models.Bill
}

func newFakeBills() *fakeBills {
	return &fakeBills{byID: map[primitive.ObjectID]models.Bill{}}
}

func (f *fakeBills) Create(_ context.Context, b *models.Bill) error {
	ensure(&b.ID)
	f.byID[b.ID] = *b
	return nil
}

func (f *fakeBills) FindByID(_ context.Context, id primitive.ObjectID) (*models.Bill, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, util.NotFound(util.BILL_NOT_FOUND)
	}
	return &b, nil
}

func (f *fakeBills) List(_ context.Context, patient *primitive.ObjectID) ([]models.Bill, error) {
	out := []models.Bill{}
	for _, b := range f.byID {
		if patient == nil || b.Patient == *patient {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBills) Replace(_ context.Context, b *models.Bill) error {
	if _, ok := f.byID[b.ID]; !ok {
		return util.NotFound(util.BILL_NOT_FOUND)
	}
	f.byID[b.ID] = *b
	return nil
}

type fakeNotifications struct {
	items []models.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	ensure(&n.ID)
	f.items = append(f.items, *n)
	return nil
}

func (f *fakeNotifications) ListForUser(_ context.Context, user primitive.ObjectID) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range f.items {
		if n.User == user {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, user, id primitive.ObjectID) error {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].User == user {
			f.items[i].Read = true
			return nil
		}
	}
	return util.NotFound(util.NOTIFICATION_NOT_FOUND)
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, user primitive.ObjectID) (int64, error) {
	var n int64
	for i := range f.items {
		if f.items[i].User == user && !f.items[i].Read {
			f.items[i].Read = true
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) Delete(_ context.Context, user, id primitive.ObjectID) error {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].User == user {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return util.NotFound(util.NOTIFICATION_NOT_FOUND)
}

type fakeCatalog struct {
	items []models.CatalogItem
	lists int
}

func (f *fakeCatalog) List(context.Context) ([]models.CatalogItem, error) {
	f.lists++
	return append([]models.CatalogItem{}, f.items...), nil
}

func (f *fakeCatalog) Create(_ context.Context, item *models.CatalogItem) error {
	for _, x := range f.items {
		if x.Name == item.Name {
			return util.Conflict(util.CATALOG_ITEM_EXISTS)
		}
	}
	ensure(&item.ID)
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeCatalog) Ensure(ctx context.Context, name string) error {
	err := f.Create(ctx, &models.CatalogItem{Name: name})
	if err != nil && strings.Contains(err.Error(), "exists") {
		return nil
	}
	return err
}

func (f *fakeCatalog) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, x := range f.items {
		if x.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return util.NotFound(util.CATALOG_ITEM_NOT_FOUND)
}

type sentMail struct {
	to, subject, body, attachment string
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (f *fakeMailer) SendAttachment(to, subject, body, name string, _ []byte) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body, attachment: name})
	return nil
}
