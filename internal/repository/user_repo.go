package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"activity-portal/backend/internal/model"
)

// UserFilter 用户列表过滤条件
type UserFilter struct {
	Role           string
	Program        string
	EnrollmentYear string
	Keyword        string // 匹配姓名 / 学号 / 邮箱
}

// UserRepository 用户数据访问接口
// 邮箱按小写比较，与 users.email 上的 LOWER 唯一索引一致
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	CreateBatch(ctx context.Context, users []*model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByStudentID(ctx context.Context, studentID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// FindExisting 返回学号或邮箱已被占用的用户，用于批量导入预校验
	FindExisting(ctx context.Context, studentIDs, emails []string) ([]model.User, error)
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]model.User, int64, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

const importBatchSize = 200

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) CreateBatch(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(users, importBatchSize).Error
}

func (r *userRepo) first(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "user_id = ?", id)
}

func (r *userRepo) GetByStudentID(ctx context.Context, studentID string) (*model.User, error) {
	return r.first(ctx, "student_id = ?", studentID)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

func (r *userRepo) FindExisting(ctx context.Context, studentIDs, emails []string) ([]model.User, error) {
	var users []model.User
	if len(studentIDs) == 0 && len(emails) == 0 {
		return users, nil
	}

	lowered := make([]string, len(emails))
	for i, e := range emails {
		lowered[i] = strings.ToLower(e)
	}
	err := r.db.WithContext(ctx).
		Select("user_id", "student_id", "email").
		Where("student_id IN ? OR LOWER(email) IN ?", studentIDs, lowered).
		Find(&users).Error
	return users, err
}

func (r *userRepo) List(ctx context.Context, filter UserFilter, offset, limit int) ([]model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	for col, val := range map[string]string{
		"role":            filter.Role,
		"program":         filter.Program,
		"enrollment_year": filter.EnrollmentYear,
	} {
		if val != "" {
			q = q.Where(col+" = ?", val)
		}
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + kw + "%"
		q = q.Where("name ILIKE ? OR student_id ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := q.Order("student_id ASC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}
