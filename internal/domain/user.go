package domain

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserStore 适配层依赖的用户存储；所有方法并发安全，返回值均为拷贝
type UserStore interface {
	Create(name, email, role string) User
	Get(id int64) (User, bool)
	List() []User
	Update(id int64, name, email, role string) (User, bool)
	Delete(id int64) bool
	Count() int
}
