package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"activity-portal/backend/internal/dto"
	"activity-portal/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestUserService() (UserService, *mockRepos) {
	repo, m := newMockRepos()
	return NewUserService(repo, zap.NewNop()), m
}

// buildImportFile 生成导入用 xlsx
func buildImportFile(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, values := range rows {
		for c, v := range values {
			f.SetCellValue("Sheet1", cell(colName(c), r+1), v)
		}
	}
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatalf("生成 xlsx 失败: %v", err)
	}
	return buf
}

// ── CreateUser 测试 ──

func TestUserService_CreateUser(t *testing.T) {
	svc, m := setupTestUserService()

	resp, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Name: " Somchai ", StudentID: "6501001", Email: "somchai@test.com",
		Password: "password123", Program: "CS", EnrollmentYear: "2565",
	}, "admin-1")
	if err != nil {
		t.Fatalf("CreateUser 应成功: %v", err)
	}
	if resp.Role != model.RoleStudent || resp.Name != "Somchai" {
		t.Errorf("响应内容不符: %+v", resp)
	}

	stored, _ := m.users.GetByStudentID(context.Background(), "6501001")
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")) != nil {
		t.Error("密码应以 bcrypt 哈希存储")
	}
}

func TestUserService_CreateUser_Duplicates(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()
	base := dto.CreateUserRequest{Name: "A", StudentID: "6501001", Email: "a@test.com", Password: "password123"}
	if _, err := svc.CreateUser(ctx, &base, "admin-1"); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}

	dupID := base
	dupID.Email = "b@test.com"
	if _, err := svc.CreateUser(ctx, &dupID, "admin-1"); !errors.Is(err, ErrStudentIDExists) {
		t.Errorf("期望 ErrStudentIDExists，实际: %v", err)
	}

	dupEmail := base
	dupEmail.StudentID = "6501002"
	if _, err := svc.CreateUser(ctx, &dupEmail, "admin-1"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

// ── 查询测试 ──

func TestUserService_ListAndProfile(t *testing.T) {
	svc, m := setupTestUserService()
	ctx := context.Background()
	_ = m.users.Create(ctx, &model.User{UserID: "u1", Name: "Anan", StudentID: "6501001", Email: "1@t.com", Role: model.RoleStudent, Program: "CS"})
	_ = m.users.Create(ctx, &model.User{UserID: "u2", Name: "Boon", StudentID: "6501002", Email: "2@t.com", Role: model.RoleStudent, Program: "EE"})
	_ = m.users.Create(ctx, &model.User{UserID: "u3", Name: "Admin", StudentID: "A0001", Email: "3@t.com", Role: model.RoleAdmin})

	list, total, err := svc.List(ctx, &dto.UserListRequest{Role: model.RoleStudent, Program: "CS"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != "u1" {
		t.Errorf("过滤结果不符: %+v", list)
	}

	profile, err := svc.GetProfile(ctx, "u2")
	if err != nil || profile.Name != "Boon" {
		t.Errorf("GetProfile 结果不符: %v %+v", err, profile)
	}
	if _, err := svc.GetProfile(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── 导入测试 ──

func TestUserService_ParseImportFile(t *testing.T) {
	svc, _ := setupTestUserService()

	buf := buildImportFile(t, [][]interface{}{
		{"学号", "姓名", "邮箱", "专业", "入学年份"},
		{"6501001", "Anan", "anan@test.com", "CS", "2565"},
		{"", "", "", "", ""},
		{"6501002", "Boon", "boon@test.com"},
	})

	rows, err := svc.ParseImportFile(buf)
	if err != nil {
		t.Fatalf("ParseImportFile 应成功: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望 2 行（跳过空行），实际=%d", len(rows))
	}
	if rows[0].StudentID != "6501001" || rows[0].Program != "CS" || rows[0].Row != 2 {
		t.Errorf("首行解析不符: %+v", rows[0])
	}
	if rows[1].Row != 4 || rows[1].EnrollmentYear != "" {
		t.Errorf("末行解析不符: %+v", rows[1])
	}
}

func TestUserService_ParseImportFile_BadHeader(t *testing.T) {
	svc, _ := setupTestUserService()

	buf := buildImportFile(t, [][]interface{}{
		{"foo", "bar"},
		{"1", "2"},
	})
	if _, err := svc.ParseImportFile(buf); !errors.Is(err, ErrImportBadHeader) {
		t.Errorf("期望 ErrImportBadHeader，实际: %v", err)
	}

	onlyHeader := buildImportFile(t, [][]interface{}{{"name", "student_id", "email"}})
	if _, err := svc.ParseImportFile(onlyHeader); !errors.Is(err, ErrImportNoData) {
		t.Errorf("期望 ErrImportNoData，实际: %v", err)
	}
}

func TestUserService_ImportUsers(t *testing.T) {
	svc, m := setupTestUserService()
	ctx := context.Background()
	_ = m.users.Create(ctx, &model.User{UserID: "u0", Name: "Old", StudentID: "6501000", Email: "old@test.com"})

	rows := []ImportUserRow{
		{Row: 2, Name: "Anan", StudentID: "6501001", Email: "anan@test.com"},
		{Row: 3, Name: "Dup", StudentID: "6501001", Email: "dup@test.com"},
		{Row: 4, Name: "Old", StudentID: "6501000", Email: "x@test.com"},
		{Row: 5, Name: "", StudentID: "6501005", Email: "e@test.com"},
		{Row: 6, Name: "Boon", StudentID: "6501006", Email: "boon@test.com"},
	}

	resp, err := svc.ImportUsers(ctx, rows, "admin-1")
	if err != nil {
		t.Fatalf("ImportUsers 应成功: %v", err)
	}
	if resp.Total != 5 || resp.Success != 2 || resp.Failed != 3 || len(resp.Errors) != 3 {
		t.Errorf("导入统计不符: %+v", resp)
	}

	user, err := m.users.GetByStudentID(ctx, "6501006")
	if err != nil {
		t.Fatalf("导入用户应落库: %v", err)
	}
	if user.Role != model.RoleStudent {
		t.Errorf("导入用户角色应为 STUDENT，实际=%s", user.Role)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(defaultPassword("6501006"))) != nil {
		t.Error("导入用户应使用默认初始密码")
	}
}

func TestDefaultPassword(t *testing.T) {
	if got := defaultPassword("6501006"); got != "Ap501006" {
		t.Errorf("期望 Ap501006，实际=%s", got)
	}
	if got := defaultPassword("123"); got != "Ap123" {
		t.Errorf("期望 Ap123，实际=%s", got)
	}
}

func TestUserService_ImportUsers_EmailCaseInsensitive(t *testing.T) {
	svc, m := setupTestUserService()
	ctx := context.Background()
	_ = m.users.Create(ctx, &model.User{UserID: "u0", Name: "Old", StudentID: "6501000", Email: "old@test.com"})

	resp, err := svc.ImportUsers(ctx, []ImportUserRow{
		{Row: 2, Name: "Clash", StudentID: "6501009", Email: "OLD@Test.com"},
		{Row: 3, Name: "Anan", StudentID: "6501001", Email: "Anan@Test.com"},
		{Row: 4, Name: "Anan2", StudentID: "6501002", Email: "anan@test.com"},
	}, "admin-1")
	if err != nil {
		t.Fatalf("ImportUsers 应成功: %v", err)
	}
	if resp.Success != 1 || resp.Failed != 2 {
		t.Errorf("邮箱应忽略大小写去重: %+v", resp)
	}
	user, err := m.users.GetByStudentID(ctx, "6501001")
	if err != nil || user.Email != "anan@test.com" {
		t.Errorf("导入邮箱应统一为小写: %v %+v", err, user)
	}
}

func TestUserService_ParseImportFile_TooManyRows(t *testing.T) {
	svc, _ := setupTestUserService()

	data := [][]interface{}{{"name", "student_id", "email"}}
	for i := 0; i <= maxImportRows; i++ {
		data = append(data, []interface{}{"S", fmt.Sprintf("65%05d", i), fmt.Sprintf("s%d@test.com", i)})
	}
	if _, err := svc.ParseImportFile(buildImportFile(t, data)); !errors.Is(err, ErrImportTooManyRows) {
		t.Errorf("期望 ErrImportTooManyRows，实际: %v", err)
	}
}
