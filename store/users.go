package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rushteam/shoprec/core"
)

// UserSnapshots 是用户快照的只读存储，实现 core.UserStore。
// 面向 demo 模式与测试：从 JSON 文件加载一批用户记录。
// 生产环境下用户记录由外部子系统拥有，调用方直接携带 User 快照
// 调用 Engine.Recommend，不经过此存储。
type UserSnapshots struct {
	order []*core.User
	byID  map[int64]*core.User
}

// LoadUsers 从 JSON 文件加载用户快照（文件为用户对象数组）。
func LoadUsers(path string) (*UserSnapshots, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, loadErr(core.ModuleUser, fmt.Sprintf("user: read %s: %v", path, err))
	}

	var users []*core.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, loadErr(core.ModuleUser, fmt.Sprintf("user: parse %s: %v", path, err))
	}

	return NewUserSnapshots(users), nil
}

// NewUserSnapshots 从用户列表构造快照存储（测试/内嵌数据场景）。
func NewUserSnapshots(users []*core.User) *UserSnapshots {
	s := &UserSnapshots{
		order: make([]*core.User, 0, len(users)),
		byID:  make(map[int64]*core.User, len(users)),
	}
	for _, u := range users {
		if u == nil {
			continue
		}
		if _, dup := s.byID[u.ID]; dup {
			continue
		}
		s.byID[u.ID] = u
		s.order = append(s.order, u)
	}
	return s
}

func (s *UserSnapshots) ByID(ctx context.Context, id int64) (*core.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return u, nil
}

func (s *UserSnapshots) All(ctx context.Context) ([]*core.User, error) {
	return s.order, nil
}

var _ core.UserStore = (*UserSnapshots)(nil)
