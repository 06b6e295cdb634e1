package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/student-planner-api/internal/models"
	"github.com/yukikurage/student-planner-api/internal/repository"
	"github.com/yukikurage/student-planner-api/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService
	ctx     context.Context
	owner   *models.User
	other   *models.User
}

func (suite *TaskServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.AutoMigrate(&models.User{}, &models.Task{}))

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.service = NewTaskService(repository.NewTaskRepository(suite.db), nil)
	suite.ctx = context.Background()
	suite.owner = suite.createUser("owner@example.com")
	suite.other = suite.createUser("other@example.com")
}

func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createUser(email string) *models.User {
	user := &models.User{Name: "Student", Email: email, PasswordHash: "hashed"}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskServiceTestSuite) createTask(title string) *models.Task {
	task, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{
		Title:   title,
		OwnerID: suite.owner.ID,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *TaskServiceTestSuite) TestCreateTask_DefaultsToTodo() {
	task := suite.createTask("Write essay")

	suite.NotEmpty(task.ID)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(suite.owner.ID, task.OwnerID)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", task.ID).Error)
	suite.Equal(models.TaskStatusTodo, stored.Status)
}

func (suite *TaskServiceTestSuite) TestCreateTask_NormalizesStatus() {
	task, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{
		Title:   "Essay",
		Status:  "Completed",
		OwnerID: suite.owner.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusDone, task.Status)
}

func (suite *TaskServiceTestSuite) TestCreateTask_BlankTitleRejected() {
	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{
			Title:   title,
			OwnerID: suite.owner.ID,
		})
		suite.ErrorIs(err, ErrTitleRequired)
	}

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *TaskServiceTestSuite) TestListTasks_ScopedToOwner() {
	suite.createTask("Mine 1")
	suite.createTask("Mine 2")
	_, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{Title: "Theirs", OwnerID: suite.other.ID})
	suite.Require().NoError(err)

	tasks, total, err := suite.service.ListTasks(suite.ctx, ListTasksInput{OwnerID: suite.owner.ID})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(tasks, 2)
	for _, task := range tasks {
		suite.Equal(suite.owner.ID, task.OwnerID)
	}
}

func (suite *TaskServiceTestSuite) TestListTasks_StatusFilterIsNormalized() {
	task := suite.createTask("Done already")
	suite.createTask("Still open")
	status := "done"
	_, err := suite.service.UpdateTask(suite.ctx, task.ID, suite.owner.ID, UpdateTaskInput{Status: &status})
	suite.Require().NoError(err)

	filter := "COMPLETED"
	tasks, total, err := suite.service.ListTasks(suite.ctx, ListTasksInput{
		OwnerID:    suite.owner.ID,
		Status:     &filter,
		Pagination: utils.PaginationParams{},
	})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(tasks, 1)
	suite.Equal(task.ID, tasks[0].ID)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_AppliesOnlyProvidedFields() {
	task, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{
		Title:       "Revise",
		Description: "chapters 1-3",
		OwnerID:     suite.owner.ID,
	})
	suite.Require().NoError(err)

	status := "progress"
	updated, err := suite.service.UpdateTask(suite.ctx, task.ID, suite.owner.ID, UpdateTaskInput{Status: &status})
	suite.Require().NoError(err)

	suite.Equal(models.TaskStatusInProgress, updated.Status)
	suite.Equal("Revise", updated.Title)
	suite.Equal("chapters 1-3", updated.Description)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_BlankTitleRejected() {
	task := suite.createTask("Revise")

	blank := "  "
	_, err := suite.service.UpdateTask(suite.ctx, task.ID, suite.owner.ID, UpdateTaskInput{Title: &blank})
	suite.ErrorIs(err, ErrTitleEmpty)

	stored, err := suite.service.GetTask(suite.ctx, task.ID, suite.owner.ID)
	suite.Require().NoError(err)
	suite.Equal("Revise", stored.Title)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_NonOwnerForbiddenAndUntouched() {
	task := suite.createTask("Private")

	status := "Done"
	title := "Hijacked"
	_, err := suite.service.UpdateTask(suite.ctx, task.ID, suite.other.ID, UpdateTaskInput{
		Title:  &title,
		Status: &status,
	})
	suite.ErrorIs(err, ErrTaskForbidden)
	suite.NotErrorIs(err, ErrTaskNotFound)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", task.ID).Error)
	suite.Equal("Private", stored.Title)
	suite.Equal(models.TaskStatusTodo, stored.Status)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_UnknownID() {
	status := "Done"
	_, err := suite.service.UpdateTask(suite.ctx, "00000000-0000-4000-8000-000000000000", suite.owner.ID, UpdateTaskInput{Status: &status})
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestDeleteTask() {
	task := suite.createTask("Temporary")

	_, err := suite.service.DeleteTask(suite.ctx, task.ID, suite.other.ID)
	suite.ErrorIs(err, ErrTaskForbidden)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error)
	suite.Equal(int64(1), count)

	id, err := suite.service.DeleteTask(suite.ctx, task.ID, suite.owner.ID)
	suite.Require().NoError(err)
	suite.Equal(task.ID, id)

	_, err = suite.service.GetTask(suite.ctx, task.ID, suite.owner.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	_, err = suite.service.DeleteTask(suite.ctx, task.ID, suite.owner.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestTaskStats() {
	suite.createTask("A")
	b := suite.createTask("B")
	c := suite.createTask("C")
	progress, done := "In Progress", "done"
	_, err := suite.service.UpdateTask(suite.ctx, b.ID, suite.owner.ID, UpdateTaskInput{Status: &progress})
	suite.Require().NoError(err)
	_, err = suite.service.UpdateTask(suite.ctx, c.ID, suite.owner.ID, UpdateTaskInput{Status: &done})
	suite.Require().NoError(err)

	counts, err := suite.service.TaskStats(suite.ctx, suite.owner.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), counts[models.TaskStatusTodo])
	suite.Equal(int64(1), counts[models.TaskStatusInProgress])
	suite.Equal(int64(1), counts[models.TaskStatusDone])
}

func (suite *TaskServiceTestSuite) TestGenerateTasks_NotConfigured() {
	_, err := suite.service.GenerateTasks(suite.ctx, "exam on friday")
	suite.ErrorIs(err, ErrAIServiceNotConfigured)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
