package session

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/rushteam/recsys/core"
	"github.com/rushteam/recsys/dataset"
)

// 会话错误
var (
	// ErrBadCredentials 用户名或密码错误。登录失败不区分
	// "用户不存在"和"密码错误"，避免泄露用户名是否已注册。
	ErrBadCredentials = core.NewDomainError(core.ModuleSession, core.ErrorCodeBadCredentials, "invalid username or password")

	// ErrBadSecurityAnswer 安全问题答案错误
	ErrBadSecurityAnswer = core.NewDomainError(core.ModuleSession, core.ErrorCodeBadCredentials, "wrong security answer")

	// ErrInvalidSignUp 注册信息不完整
	ErrInvalidSignUp = core.NewDomainError(core.ModuleSession, core.ErrorCodeInvalidInput, "username and password are required")
)

// Manager 管理注册、登录与活跃用户状态。
// 同一时刻只允许一个活跃用户，由 Dataset 的活跃用户状态保证。
//
// 凭证以 SHA-256 摘要存储，明文密码不落数据集。
type Manager struct {
	mu     sync.Mutex
	Data   *dataset.Dataset
	nextID int64
}

func NewManager(data *dataset.Dataset) *Manager {
	return &Manager{Data: data}
}

func hashCredential(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func equalCredential(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(hashCredential(given))) == 1
}

// SignUp 注册新用户并返回。用户名重复时返回 DUPLICATE_KEY。
func (m *Manager) SignUp(username, email, password, securityAnswer string) (*core.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidSignUp
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u := &core.User{
		ID:             m.allocateID(),
		Username:       username,
		Email:          strings.TrimSpace(email),
		Credential:     hashCredential(password),
		SecurityAnswer: hashCredential(strings.ToLower(strings.TrimSpace(securityAnswer))),
	}
	if err := m.Data.AddUser(u); err != nil {
		return nil, err
	}
	return u, nil
}

// allocateID 分配下一个用户 id。取数据集中现有最大 id + 1，
// 与导入数据共存时不会冲突。调用方持有 m.mu。
func (m *Manager) allocateID() int64 {
	ids := m.Data.UserIDs()
	if len(ids) > 0 && ids[len(ids)-1] >= m.nextID {
		m.nextID = ids[len(ids)-1]
	}
	m.nextID++
	return m.nextID
}

// LogIn 校验凭证并把该用户设为活跃用户。
// 已存在活跃用户时返回 ACTIVE_USER_EXISTS，凭证错误返回 BAD_CREDENTIALS。
func (m *Manager) LogIn(username, password string) (*core.User, error) {
	u, err := m.Data.UserByName(username)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !equalCredential(u.Credential, password) {
		return nil, ErrBadCredentials
	}
	if err := m.Data.SetActiveUser(u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// LogOut 注销当前活跃用户。没有活跃用户时返回 NO_ACTIVE_USER。
func (m *Manager) LogOut() error {
	return m.Data.ClearActiveUser()
}

// Current 返回当前活跃用户。
func (m *Manager) Current() (*core.User, error) {
	return m.Data.ActiveUser()
}

// ResetPassword 通过安全问题答案重置密码。
// 答案比较不区分大小写和首尾空白。
func (m *Manager) ResetPassword(username, securityAnswer, newPassword string) error {
	u, err := m.Data.UserByName(username)
	if err != nil {
		return err
	}
	answer := strings.ToLower(strings.TrimSpace(securityAnswer))
	if !equalCredential(u.SecurityAnswer, answer) {
		return ErrBadSecurityAnswer
	}
	if newPassword == "" {
		return ErrInvalidSignUp
	}
	return m.Data.UpdateCredential(u.ID, hashCredential(newPassword))
}
