package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/domain"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/store"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	msgNotFound = "定时任务不存在"

	defaultNextTimes = 5
)

// parser 接受 5 段与带秒的 6 段表达式，以及 @daily 这类描述符
var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCron 校验表达式并返回调度
func ParseCron(expr string) (cron.Schedule, error) {
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, apperr.Validation("Cron表达式不合法: " + err.Error())
	}
	return sched, nil
}

// Service 封装定时任务定义的业务规则
type Service struct {
	repo *store.Repo[ScheduleJob]
}

// NewService 创建服务
func NewService(db *gorm.DB) *Service {
	return &Service{repo: store.NewRepo[ScheduleJob](db)}
}

// All 按 ID 倒序返回全部任务
func (s *Service) All(ctx context.Context) ([]ScheduleJob, error) {
	rows, err := s.repo.FindAll(ctx, store.OrderBy("id", true))
	return rows, store.AppError(err, msgNotFound, "")
}

// FindEnabled 返回状态正常的任务，按优先级与 ID 升序
func (s *Service) FindEnabled(ctx context.Context) ([]ScheduleJob, error) {
	return s.findByStatus(ctx, StatusNormal)
}

// FindPaused 返回已暂停的任务
func (s *Service) FindPaused(ctx context.Context) ([]ScheduleJob, error) {
	return s.findByStatus(ctx, StatusPaused)
}

func (s *Service) findByStatus(ctx context.Context, status int) ([]ScheduleJob, error) {
	rows, err := s.repo.FindAll(ctx,
		store.Eq("status", &status),
		store.OrderBy("priority", false),
		store.OrderBy("id", false),
	)
	return rows, store.AppError(err, msgNotFound, "")
}

// Get 查询单个任务
func (s *Service) Get(ctx context.Context, id int64) (*ScheduleJob, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, store.AppError(err, msgNotFound, "")
	}
	return row, nil
}

// Page 分页查询
func (s *Service) Page(ctx context.Context, q JobQuery) (response.Page[ScheduleJob], error) {
	p, err := s.repo.Page(ctx, q.PageQuery, store.OrderBy("id", true),
		store.Contains("job_name", q.JobName),
		store.Eq("job_group", q.JobGroup),
		store.Eq("status", q.Status),
	)
	return p, store.AppError(err, msgNotFound, "")
}

// Create 新建任务，名称与分组组合唯一
func (s *Service) Create(ctx context.Context, p JobParam) (*ScheduleJob, error) {
	if _, err := ParseCron(p.CronExpression); err != nil {
		return nil, err
	}
	dup := duplicateMsg(p)
	if err := s.checkUnique(ctx, p, 0, dup); err != nil {
		return nil, err
	}
	row := &ScheduleJob{
		JobName:        p.JobName,
		JobGroup:       p.group(),
		BeanName:       p.BeanName,
		MethodName:     p.MethodName,
		MethodParams:   p.MethodParams,
		CronExpression: p.CronExpression,
		MisfirePolicy:  orDefault(p.MisfirePolicy, MisfireDefault),
		Concurrent:     orDefault(p.Concurrent, ConcurrentForbid),
		Status:         orDefault(p.Status, StatusNormal),
		Priority:       orDefault(p.Priority, DefaultPriority),
		Timeout:        orDefault(p.Timeout, 0),
		RetryCount:     orDefault(p.RetryCount, 0),
		RetryInterval:  orDefault(p.RetryInterval, 0),
		Description:    p.Description,
		CreateBy:       operator(ctx),
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, store.AppError(err, msgNotFound, dup)
	}
	return row, nil
}

// Update 整体更新一个任务
func (s *Service) Update(ctx context.Context, id int64, p JobParam) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if _, err := ParseCron(p.CronExpression); err != nil {
		return err
	}
	dup := duplicateMsg(p)
	if err := s.checkUnique(ctx, p, id, dup); err != nil {
		return err
	}
	values := p.values()
	values["update_by"] = operator(ctx)
	_, err := s.repo.Update(ctx, id, values)
	return store.AppError(err, msgNotFound, dup)
}

// ChangeStatus 启用或暂停任务
func (s *Service) ChangeStatus(ctx context.Context, id int64, status int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	_, err := s.repo.Update(ctx, id, map[string]any{
		"status":    status,
		"update_by": operator(ctx),
	})
	return store.AppError(err, msgNotFound, "")
}

// Delete 批量删除，不存在的 ID 被忽略
func (s *Service) Delete(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.repo.DeleteByIDs(ctx, ids)
	return n, store.AppError(err, msgNotFound, "")
}

// NextTimes 从当前时刻起计算接下来 count 次触发时间
func (s *Service) NextTimes(ctx context.Context, id int64, count int) (*NextTimes, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sched, err := ParseCron(row.CronExpression)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = defaultNextTimes
	}
	out := &NextTimes{CronExpression: row.CronExpression, Times: make([]time.Time, 0, count)}
	t := store.Now()
	for i := 0; i < count; i++ {
		t = sched.Next(t)
		if t.IsZero() {
			break
		}
		out.Times = append(out.Times, t)
	}
	return out, nil
}

func (s *Service) checkUnique(ctx context.Context, p JobParam, excludeID int64, dup string) error {
	name, group := p.JobName, p.group()
	n, err := s.repo.Count(ctx,
		store.Eq("job_name", &name),
		store.Eq("job_group", &group),
		func(db *gorm.DB) *gorm.DB {
			if excludeID > 0 {
				return db.Where("id <> ?", excludeID)
			}
			return db
		},
	)
	if err != nil {
		return apperr.Database(err)
	}
	if n > 0 {
		return apperr.AlreadyExists(dup)
	}
	return nil
}

func duplicateMsg(p JobParam) string {
	return fmt.Sprintf("任务 %s 在分组 %s 中已存在", p.JobName, p.group())
}

func operator(ctx context.Context) *string {
	if ac := domain.AuthFrom(ctx); ac != nil {
		name := ac.Username
		return &name
	}
	return nil
}
