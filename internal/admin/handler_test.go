package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"generus-backend/internal/auth"
	"generus-backend/internal/auth/authtest"
	"generus-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memStore struct {
	mu       sync.Mutex
	desa     map[uint]models.Desa
	kelompok map[uint]models.Kelompok
	kategori map[uint]models.Kategori
	users    map[uint]models.User
	inUse    map[uint]bool // kategori yang masih dipakai generus
	nextID   uint
}

func newMemStore() *memStore {
	m := &memStore{
		desa:     map[uint]models.Desa{},
		kelompok: map[uint]models.Kelompok{},
		kategori: map[uint]models.Kategori{},
		users:    map[uint]models.User{},
		inUse:    map[uint]bool{},
		nextID:   100,
	}
	m.desa[1] = models.Desa{ID: 1, Name: "Desa Timur"}
	m.desa[2] = models.Desa{ID: 2, Name: "Desa Barat"}
	m.kelompok[10] = models.Kelompok{ID: 10, DesaID: 1, Name: "Kelompok A"}
	m.kelompok[20] = models.Kelompok{ID: 20, DesaID: 2, Name: "Kelompok B"}
	m.users[1] = models.User{ID: 1, Name: "Super", Email: "super@example.com", Role: models.RoleSuperAdmin}
	return m
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) DesaOfKelompok(_ context.Context, id uint) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.kelompok[id]
	if !ok {
		return 0, auth.ErrKelompokNotFound
	}
	return k.DesaID, nil
}

func (m *memStore) ListDesa(context.Context) ([]models.Desa, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Desa
	for _, d := range m.desa {
		out = append(out, d)
	}
	return out, nil
}

func (m *memStore) GetDesa(_ context.Context, id uint) (*models.Desa, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.desa[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (m *memStore) SaveDesa(_ context.Context, d *models.Desa) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.desa {
		if other.ID != d.ID && other.Name == d.Name {
			return ErrDuplicate
		}
	}
	if d.ID == 0 {
		d.ID = m.id()
	}
	m.desa[d.ID] = *d
	return nil
}

func (m *memStore) DeleteDesa(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.kelompok {
		if k.DesaID == id {
			return ErrInUse
		}
	}
	delete(m.desa, id)
	return nil
}

func (m *memStore) ListKelompok(_ context.Context, scope auth.Scope) ([]models.Kelompok, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Kelompok
	for _, k := range m.kelompok {
		id := k.ID
		if scope.Allows(k.DesaID, &id) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *memStore) GetKelompok(_ context.Context, id uint) (*models.Kelompok, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.kelompok[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &k, nil
}

func (m *memStore) SaveKelompok(_ context.Context, k *models.Kelompok) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.kelompok {
		if other.ID != k.ID && other.DesaID == k.DesaID && other.Name == k.Name {
			return ErrDuplicate
		}
	}
	if k.ID == 0 {
		k.ID = m.id()
	}
	m.kelompok[k.ID] = *k
	return nil
}

func (m *memStore) DeleteKelompok(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kelompok, id)
	return nil
}

func (m *memStore) ListKategori(context.Context) ([]models.Kategori, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Kategori
	for _, k := range m.kategori {
		out = append(out, k)
	}
	return out, nil
}

func (m *memStore) GetKategori(_ context.Context, id uint) (*models.Kategori, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.kategori[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &k, nil
}

func (m *memStore) SaveKategori(_ context.Context, k *models.Kategori) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if k.ID == 0 {
		k.ID = m.id()
	}
	m.kategori[k.ID] = *k
	return nil
}

func (m *memStore) DeleteKategori(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inUse[id] {
		return ErrInUse
	}
	delete(m.kategori, id)
	return nil
}

func (m *memStore) ListUsers(_ context.Context, scope auth.Scope) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if userVisible(scope, u) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *memStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.users {
		if other.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.ID = m.id()
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func newAdminApp(id auth.Identity, store Store) *fiber.App {
	app := authtest.NewApp(id)
	app.Get("/desa", ListDesaHandler(store))
	app.Get("/desa/:id", GetDesaHandler(store))
	app.Post("/desa", CreateDesaHandler(store))
	app.Put("/desa/:id", UpdateDesaHandler(store))
	app.Delete("/desa/:id", DeleteDesaHandler(store))
	app.Get("/kelompok", ListKelompokHandler(store))
	app.Post("/kelompok", CreateKelompokHandler(store))
	app.Put("/kelompok/:id", UpdateKelompokHandler(store))
	app.Delete("/kelompok/:id", DeleteKelompokHandler(store))
	app.Get("/kategori", ListKategoriHandler(store))
	app.Post("/kategori", CreateKategoriHandler(store))
	app.Put("/kategori/:id", UpdateKategoriHandler(store))
	app.Delete("/kategori/:id", DeleteKategoriHandler(store))
	app.Get("/users", ListUsersHandler(store))
	app.Post("/users", CreateUserHandler(store))
	app.Delete("/users/:id", DeleteUserHandler(store))
	return app
}

func request(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func TestDesaCRUD(t *testing.T) {
	store := newMemStore()
	app := newAdminApp(authtest.SuperAdmin(), store)

	status, body := request(t, app, http.MethodPost, "/desa", `{"name":"  Desa Utara ","address":"Jl. Masjid 1"}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	var created DesaResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Desa Utara", created.Name)

	status, _ = request(t, app, http.MethodPost, "/desa", `{"name":"Desa Timur"}`)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = request(t, app, http.MethodPost, "/desa", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = request(t, app, http.MethodPut, "/desa/2", `{"name":"Desa Barat Daya"}`)
	require.Equal(t, http.StatusOK, status, string(body))

	status, _ = request(t, app, http.MethodDelete, "/desa/1", "")
	assert.Equal(t, http.StatusConflict, status, "desa with kelompok cannot be deleted")

	status, _ = request(t, app, http.MethodDelete, "/desa/999", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = request(t, app, http.MethodDelete, "/desa/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNoContent, status)
}

func TestKelompokScope(t *testing.T) {
	store := newMemStore()

	t.Run("admin desa creates in own desa", func(t *testing.T) {
		app := newAdminApp(authtest.AdminDesa(1), store)
		status, body := request(t, app, http.MethodPost, "/kelompok", `{"desa_id":2,"name":"Kelompok C"}`)
		require.Equal(t, http.StatusCreated, status, string(body))
		var k KelompokResponse
		require.NoError(t, json.Unmarshal(body, &k))
		assert.Equal(t, uint(1), k.DesaID)
		assert.Equal(t, "Desa Timur", k.DesaName)
	})

	t.Run("superadmin must name desa", func(t *testing.T) {
		app := newAdminApp(authtest.SuperAdmin(), store)
		status, _ := request(t, app, http.MethodPost, "/kelompok", `{"name":"Kelompok D"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		status, _ = request(t, app, http.MethodPost, "/kelompok", `{"desa_id":99,"name":"Kelompok D"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		status, _ = request(t, app, http.MethodPost, "/kelompok", `{"desa_id":2,"name":"Kelompok B"}`)
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("admin desa cannot touch other desa", func(t *testing.T) {
		app := newAdminApp(authtest.AdminDesa(1), store)
		status, _ := request(t, app, http.MethodPut, "/kelompok/20", `{"name":"Ganti"}`)
		assert.Equal(t, http.StatusNotFound, status)
		status, _ = request(t, app, http.MethodDelete, "/kelompok/20", "")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("list follows scope", func(t *testing.T) {
		var list []KelompokResponse
		_, body := request(t, newAdminApp(authtest.AdminDesa(1), store), http.MethodGet, "/kelompok", "")
		require.NoError(t, json.Unmarshal(body, &list))
		assert.Len(t, list, 2)

		_, body = request(t, newAdminApp(authtest.User(1, 10), store), http.MethodGet, "/kelompok", "")
		require.NoError(t, json.Unmarshal(body, &list))
		require.Len(t, list, 1)
		assert.Equal(t, uint(10), list[0].ID)
	})
}

func TestKategoriHandlers(t *testing.T) {
	store := newMemStore()
	app := newAdminApp(authtest.SuperAdmin(), store)

	status, body := request(t, app, http.MethodPost, "/kategori", `{"name":"Caberawit","sort_order":2}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	var k KategoriResponse
	require.NoError(t, json.Unmarshal(body, &k))

	status, body = request(t, app, http.MethodPut, "/kategori/"+itoa(k.ID), `{"name":"Caberawit","description":"SD","sort_order":1}`)
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &k))
	assert.Equal(t, "SD", k.Description)

	store.inUse[k.ID] = true
	status, _ = request(t, app, http.MethodDelete, "/kategori/"+itoa(k.ID), "")
	assert.Equal(t, http.StatusConflict, status)

	var list []KategoriResponse
	_, body = request(t, newAdminApp(authtest.User(1, 10), store), http.MethodGet, "/kategori", "")
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)
}

func TestCreateUserRankAndScope(t *testing.T) {
	tests := []struct {
		name       string
		caller     auth.Identity
		body       string
		wantStatus int
		wantDesa   uint
		wantKel    *uint
	}{
		{
			name:       "superadmin creates admin desa",
			caller:     authtest.SuperAdmin(),
			body:       `{"name":"Admin Timur","email":"timur@example.com","password":"rahasia123","role":"admin_desa","desa_id":1}`,
			wantStatus: http.StatusCreated,
			wantDesa:   1,
		},
		{
			name:       "superadmin admin desa needs existing desa",
			caller:     authtest.SuperAdmin(),
			body:       `{"name":"X","email":"x@example.com","password":"rahasia123","role":"admin_desa","desa_id":77}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "admin desa creates admin kelompok in own desa",
			caller:     authtest.AdminDesa(1),
			body:       `{"name":"Admin A","email":"a@example.com","password":"rahasia123","role":"admin_kelompok","kelompok_id":10}`,
			wantStatus: http.StatusCreated,
			wantDesa:   1,
			wantKel:    authtest.Uint(10),
		},
		{
			name:       "admin desa cannot create in other desa",
			caller:     authtest.AdminDesa(1),
			body:       `{"name":"Admin B","email":"b@example.com","password":"rahasia123","role":"user","kelompok_id":20}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin desa cannot create peer",
			caller:     authtest.AdminDesa(1),
			body:       `{"name":"Admin Lain","email":"lain@example.com","password":"rahasia123","role":"admin_desa"}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "nobody creates superadmin",
			caller:     authtest.SuperAdmin(),
			body:       `{"name":"S2","email":"s2@example.com","password":"rahasia123","role":"superadmin"}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown role",
			caller:     authtest.SuperAdmin(),
			body:       `{"name":"S2","email":"s2@example.com","password":"rahasia123","role":"guru"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			caller:     authtest.SuperAdmin(),
			body:       `{"name":"S2","email":"s2@example.com","password":"123","role":"user","kelompok_id":10}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate email",
			caller:     authtest.SuperAdmin(),
			body:       `{"name":"S2","email":"SUPER@example.com","password":"rahasia123","role":"user","kelompok_id":10}`,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			app := newAdminApp(tt.caller, store)

			status, body := request(t, app, http.MethodPost, "/users", tt.body)
			require.Equal(t, tt.wantStatus, status, string(body))
			if status != http.StatusCreated {
				return
			}

			var resp UserResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			require.NotNil(t, resp.DesaID)
			assert.Equal(t, tt.wantDesa, *resp.DesaID)
			assert.Equal(t, tt.wantKel, resp.KelompokID)
			assert.NotContains(t, string(body), "password")

			saved, err := store.GetUser(context.Background(), resp.ID)
			require.NoError(t, err)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("rahasia123")))
		})
	}
}

func TestDeleteUser(t *testing.T) {
	store := newMemStore()
	store.users[50] = models.User{ID: 50, Email: "a@example.com", Role: models.RoleAdminKelompok, DesaID: authtest.Uint(1), KelompokID: authtest.Uint(10)}
	store.users[51] = models.User{ID: 51, Email: "b@example.com", Role: models.RoleUser, DesaID: authtest.Uint(2), KelompokID: authtest.Uint(20)}
	store.users[52] = models.User{ID: 52, Email: "c@example.com", Role: models.RoleAdminDesa, DesaID: authtest.Uint(1)}

	app := newAdminApp(authtest.AdminDesa(1), store)

	status, _ := request(t, app, http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, status, "superadmin is outside desa scope")

	status, _ = request(t, app, http.MethodDelete, "/users/51", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = request(t, app, http.MethodDelete, "/users/52", "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = request(t, app, http.MethodDelete, "/users/2", "")
	assert.Equal(t, http.StatusBadRequest, status, "AdminDesa identity has user id 2")

	status, _ = request(t, app, http.MethodDelete, "/users/50", "")
	assert.Equal(t, http.StatusNoContent, status)

	var list []UserResponse
	_, body := request(t, app, http.MethodGet, "/users", "")
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, uint(52), list[0].ID)
}

func itoa(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}
