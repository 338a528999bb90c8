package services

import (
	"context"
	"sort"

	"github.com/Masterminds/squirrel"

	"github.com/cchuang/regent/internal/app/auth"
	"github.com/cchuang/regent/internal/app/models"
	"github.com/cchuang/regent/internal/app/repositories"
	"github.com/cchuang/regent/internal/pkg/apperrors"
)

var (
	adminID     = auth.Identity{UserID: 1, Role: models.RoleAdmin}
	teacherT01  = auth.Identity{UserID: 2, Role: models.RoleTeacher, RelatedID: "T01"}
	teacherT02  = auth.Identity{UserID: 3, Role: models.RoleTeacher, RelatedID: "T02"}
	studentS1   = auth.Identity{UserID: 4, Role: models.RoleStudent, RelatedID: "S2024001"}
	staffID     = auth.Identity{UserID: 5, Role: models.RoleStaff}
	anonymousID = auth.Anonymous
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

// In-memory stand-ins for the repositories. Visibility filters are SQL
// fragments the fakes cannot interpret, so tests exercising row-level access
// go through the Get paths where the predicates decide; the listing fakes
// just return their canned rows and record the limits they were given.

type fakeTx struct {
	calls int
	err   error
}

func (f *fakeTx) InTx(ctx context.Context, fn func(ctx context.Context, q repositories.Querier) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx, nil)
}

type fakeStudentStore struct {
	students  map[string]*models.Student
	listErr   error
	lastLimit int
}

func newFakeStudentStore(students ...*models.Student) *fakeStudentStore {
	m := make(map[string]*models.Student)
	for _, st := range students {
		m[st.ID] = st
	}
	return &fakeStudentStore{students: m}
}

func (f *fakeStudentStore) GetByID(ctx context.Context, id string) (*models.Student, error) {
	if st, ok := f.students[id]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) List(ctx context.Context, vis squirrel.Sqlizer, opts repositories.StudentListOptions, offset uint64, limit int) ([]models.Student, int64, error) {
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []models.Student
	for _, st := range f.students {
		if opts.ClassID > 0 && (st.ClassID == nil || *st.ClassID != opts.ClassID) {
			continue
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeStudentStore) Suggest(ctx context.Context, vis squirrel.Sqlizer, q string, limit int) ([]models.Student, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Student
	for _, st := range f.students {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStudentStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, ok := f.students[id]
	return ok, nil
}

func (f *fakeStudentStore) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	for _, st := range f.students {
		if st.ID != excludeID && st.Email != nil && *st.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentStore) Create(ctx context.Context, q repositories.Querier, st *models.Student) error {
	cp := *st
	f.students[st.ID] = &cp
	return nil
}

func (f *fakeStudentStore) Update(ctx context.Context, q repositories.Querier, st *models.Student) error {
	if _, ok := f.students[st.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	cp := *st
	f.students[st.ID] = &cp
	return nil
}

func (f *fakeStudentStore) Delete(ctx context.Context, q repositories.Querier, id string) error {
	if _, ok := f.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.students, id)
	return nil
}

type fakeTeacherStore struct {
	teachers  map[string]*models.Teacher
	listErr   error
	lastLimit int
}

func newFakeTeacherStore(teachers ...*models.Teacher) *fakeTeacherStore {
	m := make(map[string]*models.Teacher)
	for _, tc := range teachers {
		m[tc.ID] = tc
	}
	return &fakeTeacherStore{teachers: m}
}

func (f *fakeTeacherStore) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	if tc, ok := f.teachers[id]; ok {
		cp := *tc
		return &cp, nil
	}
	return nil, apperrors.ErrTeacherNotFound
}

func (f *fakeTeacherStore) List(ctx context.Context, vis squirrel.Sqlizer, opts repositories.TeacherListOptions, offset uint64, limit int) ([]models.Teacher, int64, error) {
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []models.Teacher
	for _, tc := range f.teachers {
		out = append(out, *tc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeTeacherStore) Suggest(ctx context.Context, vis squirrel.Sqlizer, q string, limit int) ([]models.Teacher, error) {
	var out []models.Teacher
	for _, tc := range f.teachers {
		out = append(out, *tc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTeacherStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, ok := f.teachers[id]
	return ok, nil
}

func (f *fakeTeacherStore) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	for _, tc := range f.teachers {
		if tc.ID != excludeID && tc.Email != nil && *tc.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeacherStore) Create(ctx context.Context, q repositories.Querier, tc *models.Teacher) error {
	cp := *tc
	f.teachers[tc.ID] = &cp
	return nil
}

func (f *fakeTeacherStore) Update(ctx context.Context, q repositories.Querier, tc *models.Teacher) error {
	if _, ok := f.teachers[tc.ID]; !ok {
		return apperrors.ErrTeacherNotFound
	}
	cp := *tc
	f.teachers[tc.ID] = &cp
	return nil
}

func (f *fakeTeacherStore) Delete(ctx context.Context, q repositories.Querier, id string) error {
	if _, ok := f.teachers[id]; !ok {
		return apperrors.ErrTeacherNotFound
	}
	delete(f.teachers, id)
	return nil
}

type fakeClassStore struct {
	classes map[int64]*models.Class
	counts  map[int64]int64
	nextID  int64
	listErr error
}

func newFakeClassStore(classes ...*models.Class) *fakeClassStore {
	m := make(map[int64]*models.Class)
	var maxID int64
	for _, cl := range classes {
		m[cl.ID] = cl
		if cl.ID > maxID {
			maxID = cl.ID
		}
	}
	return &fakeClassStore{classes: m, counts: make(map[int64]int64), nextID: maxID + 1}
}

func (f *fakeClassStore) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	if cl, ok := f.classes[id]; ok {
		cp := *cl
		return &cp, nil
	}
	return nil, apperrors.ErrClassNotFound
}

func (f *fakeClassStore) GetByHeadTeacher(ctx context.Context, teacherID string) (*models.Class, error) {
	for _, cl := range f.classes {
		if cl.TeacherID != nil && *cl.TeacherID == teacherID {
			cp := *cl
			return &cp, nil
		}
	}
	return nil, apperrors.ErrClassNotFound
}

func (f *fakeClassStore) List(ctx context.Context, vis squirrel.Sqlizer, opts repositories.ClassListOptions, offset uint64, limit int) ([]models.Class, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []models.Class
	for _, cl := range f.classes {
		out = append(out, *cl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeClassStore) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	for _, cl := range f.classes {
		if cl.ID != excludeID && cl.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClassStore) StudentCount(ctx context.Context, id int64) (int64, error) {
	return f.counts[id], nil
}

func (f *fakeClassStore) Create(ctx context.Context, q repositories.Querier, cl *models.Class) error {
	cl.ID = f.nextID
	f.nextID++
	cp := *cl
	f.classes[cl.ID] = &cp
	return nil
}

func (f *fakeClassStore) Update(ctx context.Context, q repositories.Querier, cl *models.Class) error {
	if _, ok := f.classes[cl.ID]; !ok {
		return apperrors.ErrClassNotFound
	}
	cp := *cl
	f.classes[cl.ID] = &cp
	return nil
}

func (f *fakeClassStore) Delete(ctx context.Context, q repositories.Querier, id int64) error {
	if _, ok := f.classes[id]; !ok {
		return apperrors.ErrClassNotFound
	}
	delete(f.classes, id)
	return nil
}

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	m := make(map[int64]*models.User)
	var maxID int64
	for _, u := range users {
		m[u.ID] = u
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	return &fakeUserStore{users: m, nextID: maxID + 1}
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) List(ctx context.Context, search string, offset uint64, limit int) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeUserStore) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	for _, u := range f.users {
		if u.ID != excludeID && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(ctx context.Context, q repositories.Querier, u *models.User) error {
	u.ID = f.nextID
	f.nextID++
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) Update(ctx context.Context, q repositories.Querier, u *models.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, q repositories.Querier, id int64, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, q repositories.Querier, id int64) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeDepartmentStore struct {
	departments map[int64]*models.Department
	referenced  map[int64]bool
	nextID      int64
}

func newFakeDepartmentStore(departments ...*models.Department) *fakeDepartmentStore {
	m := make(map[int64]*models.Department)
	var maxID int64
	for _, d := range departments {
		m[d.ID] = d
		if d.ID > maxID {
			maxID = d.ID
		}
	}
	return &fakeDepartmentStore{
		departments: m,
		referenced:  make(map[int64]bool),
		nextID:      maxID + 1,
	}
}

func (f *fakeDepartmentStore) GetAll(ctx context.Context) ([]models.Department, error) {
	var out []models.Department
	for _, d := range f.departments {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeDepartmentStore) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	if d, ok := f.departments[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, apperrors.ErrDepartmentNotFound
}

func (f *fakeDepartmentStore) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	for _, d := range f.departments {
		if d.ID != excludeID && d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDepartmentStore) IsReferenced(ctx context.Context, id int64) (bool, error) {
	return f.referenced[id], nil
}

func (f *fakeDepartmentStore) Create(ctx context.Context, q repositories.Querier, d *models.Department) error {
	d.ID = f.nextID
	f.nextID++
	cp := *d
	f.departments[d.ID] = &cp
	return nil
}

func (f *fakeDepartmentStore) Update(ctx context.Context, q repositories.Querier, d *models.Department) error {
	if _, ok := f.departments[d.ID]; !ok {
		return apperrors.ErrDepartmentNotFound
	}
	cp := *d
	f.departments[d.ID] = &cp
	return nil
}

func (f *fakeDepartmentStore) Delete(ctx context.Context, q repositories.Querier, id int64) error {
	if _, ok := f.departments[id]; !ok {
		return apperrors.ErrDepartmentNotFound
	}
	delete(f.departments, id)
	return nil
}
