package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/almacen-pos/internal/application/auth"
	"github.com/tu-usuario/almacen-pos/internal/application/dto"
	"github.com/tu-usuario/almacen-pos/internal/domain"
	"github.com/tu-usuario/almacen-pos/internal/domain/entity"
	pkgjwt "github.com/tu-usuario/almacen-pos/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "almacen-pos-test"
)

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (m *memUserRepo) Create(u *entity.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) Update(u *entity.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) List(int, int) ([]*entity.User, error) { return nil, nil }

func newUseCase() (*auth.AuthUseCase, *memUserRepo) {
	repo := newMemUserRepo()
	return auth.NewAuthUseCase(repo, testSecret, testIssuer, 60), repo
}

func TestRegister_RolPorDefectoEsVendedor(t *testing.T) {
	uc, repo := newUseCase()

	out, err := uc.Register(dto.RegisterRequest{
		Email:    "Maria@Tienda.com",
		Password: "password123",
		Name:     "María",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleVendedor, out.Role)
	assert.Equal(t, "maria@tienda.com", out.Email, "el email se normaliza a minúsculas")
	assert.True(t, out.Active)

	stored, _ := repo.GetByID(out.ID)
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash, "el password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Register(dto.RegisterRequest{Email: "maria@tienda.com", Password: "password123"})
	require.NoError(t, err)

	_, err = uc.Register(dto.RegisterRequest{Email: "MARIA@tienda.com", Password: "otropassword"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists, "el duplicado se detecta sin importar mayúsculas")
}

func TestRegister_PasswordCorto(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Register(dto.RegisterRequest{Email: "maria@tienda.com", Password: "corto"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_RolDesconocido(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Register(dto.RegisterRequest{Email: "maria@tienda.com", Password: "password123", Role: "gerente"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_EmiteTokenConRol(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Register(dto.RegisterRequest{Email: "admin@tienda.com", Password: "password123", Role: entity.RoleAdmin})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "admin@tienda.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	userID, role, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_PasswordIncorrecto_MismoErrorQueEmailInexistente(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Register(dto.RegisterRequest{Email: "maria@tienda.com", Password: "password123"})
	require.NoError(t, err)

	_, errBadPass := uc.Login(dto.LoginRequest{Email: "maria@tienda.com", Password: "incorrecta"})
	_, errNoUser := uc.Login(dto.LoginRequest{Email: "nadie@tienda.com", Password: "password123"})

	assert.ErrorIs(t, errBadPass, domain.ErrUnauthorized)
	assert.ErrorIs(t, errNoUser, domain.ErrUnauthorized, "no se filtra qué cuentas existen")
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, repo := newUseCase()

	out, err := uc.Register(dto.RegisterRequest{Email: "maria@tienda.com", Password: "password123"})
	require.NoError(t, err)

	user, _ := repo.GetByID(out.ID)
	user.Active = false
	require.NoError(t, repo.Update(user))

	_, err = uc.Login(dto.LoginRequest{Email: "maria@tienda.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
