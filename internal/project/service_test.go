package project_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/frahmantamala/custom-timesheet/internal"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/project"
)

type mockProjectRepository struct {
	projects  map[string]*project.Project
	tasks     []*project.Task
	owners    map[string]string
	createErr error
}

func newMockProjectRepository() *mockProjectRepository {
	return &mockProjectRepository{
		projects: map[string]*project.Project{},
		owners:   map[string]string{},
	}
}

func (m *mockProjectRepository) List(_ context.Context, includeClosed bool) ([]*project.Project, error) {
	var out []*project.Project
	for _, p := range m.projects {
		if includeClosed || p.IsOpen() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProjectRepository) GetByName(_ context.Context, name string) (*project.Project, error) {
	p, ok := m.projects[name]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	return p, nil
}

func (m *mockProjectRepository) Create(_ context.Context, p *project.Project) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.projects[p.Name] = p
	return nil
}

func (m *mockProjectRepository) UpdateApprovers(_ context.Context, name, approvers string) error {
	m.projects[name].Approver = approvers
	return nil
}

func (m *mockProjectRepository) ListTasks(_ context.Context, name string) ([]*project.Task, error) {
	var out []*project.Task
	for _, t := range m.tasks {
		if t.Project == name {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockProjectRepository) CreateTask(_ context.Context, t *project.Task) error {
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *mockProjectRepository) OwnerEmployee(_ context.Context, name string) (string, error) {
	return m.owners[name], nil
}

var _ = Describe("Project Service", func() {
	var (
		repo    *mockProjectRepository
		service *project.Service
		ctx     context.Context
		manager *coreUser.Actor
		staff   *coreUser.Actor
	)

	BeforeEach(func() {
		repo = newMockProjectRepository()
		service = project.NewService(repo, quietLogger())
		ctx = context.Background()
		manager = &coreUser.Actor{ID: "pm@example.com", Roles: []string{coreUser.RoleProjectsManager}}
		staff = &coreUser.Actor{ID: "dev@example.com", Employee: "EMP-1", Roles: []string{coreUser.RoleEmployee}}
	})

	Describe("Create", func() {
		It("creates an open project owned by the caller", func() {
			p, err := service.Create(ctx, manager, project.CreateProjectDTO{
				Name:        "P1",
				ProjectName: "Apollo",
				Approvers:   []string{" lead@example.com", "lead@example.com", "qa@example.com "},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Status).To(Equal(project.StatusOpen))
			Expect(p.Owner).To(Equal("pm@example.com"))
			Expect(p.Approver).To(Equal("lead@example.com,qa@example.com"))
			Expect(repo.projects).To(HaveKey("P1"))
		})

		It("generates a name when none is given", func() {
			p, err := service.Create(ctx, manager, project.CreateProjectDTO{ProjectName: "Gemini"})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name).To(HavePrefix("PROJ-"))
		})

		It("refuses callers without a managing role", func() {
			_, err := service.Create(ctx, staff, project.CreateProjectDTO{ProjectName: "Apollo"})
			Expect(err).To(Equal(project.ErrForbidden))
			Expect(repo.projects).To(BeEmpty())
		})

		It("lets a System Manager create projects", func() {
			admin := &coreUser.Actor{ID: "sm@example.com", Roles: []string{coreUser.RoleSystemManager}}
			_, err := service.Create(ctx, admin, project.CreateProjectDTO{Name: "P2", ProjectName: "Apollo"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("requires a project name", func() {
			_, err := service.Create(ctx, manager, project.CreateProjectDTO{Name: "P1"})
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("reports duplicates as a conflict", func() {
			repo.projects["P1"] = project.NewProject("P1", "Apollo", "pm@example.com")
			_, err := service.Create(ctx, manager, project.CreateProjectDTO{Name: "P1", ProjectName: "Apollo"})
			Expect(err).To(Equal(project.ErrProjectExists))
		})

		It("surfaces repository failures", func() {
			repo.createErr = errors.New("disk full")
			_, err := service.Create(ctx, manager, project.CreateProjectDTO{Name: "P1", ProjectName: "Apollo"})
			Expect(err).To(MatchError("disk full"))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			repo.projects["P1"] = project.NewProject("P1", "Apollo", "pm@example.com")
			closed := project.NewProject("P2", "Gemini", "pm@example.com")
			closed.Status = project.StatusCompleted
			repo.projects["P2"] = closed
		})

		It("hides closed projects by default", func() {
			projects, err := service.List(ctx, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(1))
			Expect(projects[0].Name).To(Equal("P1"))
		})

		It("includes closed projects on request", func() {
			projects, err := service.List(ctx, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(2))
		})
	})

	Describe("SetApprovers", func() {
		BeforeEach(func() {
			repo.projects["P1"] = project.NewProject("P1", "Apollo", "pm@example.com")
		})

		It("replaces the approver list", func() {
			p, err := service.SetApprovers(ctx, manager, "P1", project.SetApproversDTO{Approvers: []string{"a@example.com", "b@example.com"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Approvers()).To(Equal([]string{"a@example.com", "b@example.com"}))
			Expect(repo.projects["P1"].Approver).To(Equal("a@example.com,b@example.com"))
		})

		It("returns not found for unknown projects", func() {
			_, err := service.SetApprovers(ctx, manager, "NOPE", project.SetApproversDTO{})
			Expect(err).To(Equal(project.ErrProjectNotFound))
		})
	})

	Describe("Tasks", func() {
		BeforeEach(func() {
			repo.projects["P1"] = project.NewProject("P1", "Apollo", "pm@example.com")
		})

		It("creates and lists tasks per project", func() {
			task, err := service.CreateTask(ctx, manager, "P1", project.CreateTaskDTO{Subject: "Design"})
			Expect(err).NotTo(HaveOccurred())
			Expect(task.Name).To(HavePrefix("TASK-"))
			Expect(task.Status).To(Equal(project.StatusOpen))

			tasks, err := service.ListTasks(ctx, "P1")
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(1))
			Expect(tasks[0].Subject).To(Equal("Design"))
		})

		It("refuses tasks for unknown projects", func() {
			_, err := service.CreateTask(ctx, manager, "NOPE", project.CreateTaskDTO{Subject: "Design"})
			Expect(err).To(Equal(project.ErrProjectNotFound))
		})
	})

	It("resolves the owner's employee", func() {
		repo.owners["P1"] = "EMP-7"
		employee, err := service.OwnerEmployee(ctx, "P1")
		Expect(err).NotTo(HaveOccurred())
		Expect(employee).To(Equal("EMP-7"))
	})
})

var _ = Describe("Project approvers", func() {
	It("splits and trims the stored list", func() {
		p := &project.Project{Approver: " a@example.com, ,b@example.com"}
		Expect(p.Approvers()).To(Equal([]string{"a@example.com", "b@example.com"}))
	})

	It("returns nothing for an empty list", func() {
		p := &project.Project{}
		Expect(p.Approvers()).To(BeEmpty())
	})
})
