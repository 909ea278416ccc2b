package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/project"
	"github.com/frahmantamala/custom-timesheet/internal/user"
	"github.com/frahmantamala/custom-timesheet/pkg/logger"
)

const seedPassword = "password123"

var seedUsers = []user.CreateUserDTO{
	{Email: "manager@mail.com", FullName: "Maya Manager", Employee: "HR-EMP-0001", Roles: []string{coreUser.RoleSystemManager}},
	{Email: "lead@mail.com", FullName: "Lukas Lead", Employee: "HR-EMP-0002", Roles: []string{coreUser.RoleEmployee, coreUser.RoleProjectsManager}},
	{Email: "fadhil@mail.com", FullName: "Fadhil", Employee: "HR-EMP-0003", Roles: []string{coreUser.RoleEmployee}},
	{Email: "padil@mail.com", FullName: "Padil", Employee: "HR-EMP-0004", Roles: []string{coreUser.RoleEmployee}},
}

var seedProjects = []struct {
	dto   project.CreateProjectDTO
	tasks []string
}{
	{
		dto:   project.CreateProjectDTO{Name: "PROJ-0001", ProjectName: "Internal Tools", Owner: "lead@mail.com", Approvers: []string{"lead@mail.com"}},
		tasks: []string{"Development", "Code Review", "Meetings"},
	},
	{
		dto:   project.CreateProjectDTO{Name: "PROJ-0002", ProjectName: "Client Portal", Owner: "manager@mail.com", Approvers: []string{"manager@mail.com", "lead@mail.com"}},
		tasks: []string{"Design", "Implementation", "Support"},
	},
}

// clearOrder lists tables children first.
var clearOrder = []string{
	"todos", "files", "timesheet_approvals", "custom_timesheet_details", "custom_timesheets",
	"tasks", "projects", "user_roles", "users",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with users, roles, projects and tasks for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			log.Fatalf("failed to init dependencies: %v", err)
		}
		defer deps.DB.Close()

		if err := runSeed(context.Background(), deps); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	},
}

func runSeed(ctx context.Context, deps *Dependencies) error {
	lg := logger.L()

	if clearData {
		if err := clearTables(ctx, deps.Gorm); err != nil {
			return err
		}
		lg.Info("cleared existing data")
	}

	svc := buildServices(deps)

	for _, dto := range seedUsers {
		dto.Password = seedPassword
		_, err := svc.Users.Create(ctx, nil, dto)
		switch {
		case errors.Is(err, user.ErrExists):
			lg.Info("user already exists", "email", dto.Email)
		case err != nil:
			return fmt.Errorf("seed user %s: %w", dto.Email, err)
		default:
			lg.Info("seeded user", "email", dto.Email, "roles", dto.Roles)
		}
	}

	admin := &coreUser.Actor{ID: coreUser.Administrator, FullName: coreUser.Administrator}
	for _, sp := range seedProjects {
		_, err := svc.Projects.Create(ctx, admin, sp.dto)
		switch {
		case errors.Is(err, project.ErrProjectExists):
			lg.Info("project already exists", "project", sp.dto.Name)
		case err != nil:
			return fmt.Errorf("seed project %s: %w", sp.dto.Name, err)
		default:
			lg.Info("seeded project", "project", sp.dto.Name, "approvers", sp.dto.Approvers)
		}

		existing, err := svc.Projects.ListTasks(ctx, sp.dto.Name)
		if err != nil {
			return fmt.Errorf("list tasks of %s: %w", sp.dto.Name, err)
		}
		have := make(map[string]bool, len(existing))
		for _, t := range existing {
			have[t.Subject] = true
		}
		for _, subject := range sp.tasks {
			if have[subject] {
				continue
			}
			if _, err := svc.Projects.CreateTask(ctx, admin, sp.dto.Name, project.CreateTaskDTO{Subject: subject}); err != nil {
				return fmt.Errorf("seed task %s/%s: %w", sp.dto.Name, subject, err)
			}
		}
	}

	lg.Info("seed complete", "users", len(seedUsers), "projects", len(seedProjects), "password", seedPassword)
	return nil
}

func clearTables(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range clearOrder {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
