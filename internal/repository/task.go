package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"talkitout/internal/models"
)

type TaskRepository interface {
	CreateTask(task *models.Task) error
	GetTasks(userID int64) ([]*models.Task, error)
	GetTaskByID(id int64) (*models.Task, error)
	UpdateTask(task *models.Task) error
	DeleteTask(id, userID int64) error
	DeleteByUser(userID int64) error
}

type taskRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTaskRepository(db *sqlx.DB, logger *zap.Logger) TaskRepository {
	return &taskRepository{db: db, logger: logger}
}

func (r *taskRepository) CreateTask(task *models.Task) error {
	query := `INSERT INTO tasks (user_id, title, notes, done, due_date) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return r.db.QueryRowx(query, task.UserID, task.Title, task.Notes, task.Done, task.DueDate).StructScan(task)
}

func (r *taskRepository) GetTasks(userID int64) ([]*models.Task, error) {
	var tasks []*models.Task
	query := `SELECT id, user_id, title, notes, done, due_date, completed_at, created_at
	          FROM tasks WHERE user_id = $1 ORDER BY done, due_date NULLS LAST, created_at DESC`
	err := r.db.Select(&tasks, query, userID)
	return tasks, err
}

func (r *taskRepository) GetTaskByID(id int64) (*models.Task, error) {
	var task models.Task
	query := `SELECT id, user_id, title, notes, done, due_date, completed_at, created_at FROM tasks WHERE id = $1`
	err := r.db.Get(&task, query, id)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) UpdateTask(task *models.Task) error {
	query := `UPDATE tasks SET title = $1, notes = $2, done = $3, due_date = $4, completed_at = $5
	          WHERE id = $6 AND user_id = $7`
	_, err := r.db.Exec(query, task.Title, task.Notes, task.Done, task.DueDate, task.CompletedAt, task.ID, task.UserID)
	return err
}

func (r *taskRepository) DeleteTask(id, userID int64) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	_, err := r.db.Exec(query, id, userID)
	return err
}

func (r *taskRepository) DeleteByUser(userID int64) error {
	query := `DELETE FROM tasks WHERE user_id = $1`
	_, err := r.db.Exec(query, userID)
	return err
}
