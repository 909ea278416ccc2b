package timesheet_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/frahmantamala/custom-timesheet/internal"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
)

var _ = Describe("ReadGuard", func() {
	as := func(actor *coreUser.Actor) context.Context {
		return appErrors.ContextWithActor(context.Background(), actor)
	}

	draft := docservice.Record{"name": "TS-1", "employee": "EMP-1", "approver": "EMP-9", "status": "Draft"}
	submitted := docservice.Record{"name": "TS-2", "employee": "EMP-1", "approver": "EMP-9", "status": "Submitted"}

	It("hides everything from anonymous callers", func() {
		Expect(timesheet.ReadGuard(context.Background(), draft)).To(BeFalse())
	})

	It("shows the employee their own records", func() {
		Expect(timesheet.ReadGuard(as(&coreUser.Actor{ID: "e1", Employee: "EMP-1"}), draft)).To(BeTrue())
	})

	It("shows the approver only records that left draft", func() {
		approver := as(&coreUser.Actor{ID: "a9", Employee: "EMP-9"})
		Expect(timesheet.ReadGuard(approver, draft)).To(BeFalse())
		Expect(timesheet.ReadGuard(approver, submitted)).To(BeTrue())
	})

	It("shows privileged actors everything", func() {
		Expect(timesheet.ReadGuard(as(&coreUser.Actor{ID: coreUser.Administrator}), draft)).To(BeTrue())
	})
})

var _ = Describe("DeleteGuard", func() {
	as := func(actor *coreUser.Actor) context.Context {
		return appErrors.ContextWithActor(context.Background(), actor)
	}

	draft := docservice.Record{"name": "TS-1", "employee": "EMP-1", "docstatus": 0, "status": "Draft"}
	submitted := docservice.Record{"name": "TS-2", "employee": "EMP-1", "docstatus": 1, "status": "Submitted"}
	owner := &coreUser.Actor{ID: "e1", Employee: "EMP-1", Roles: []string{coreUser.RoleEmployee}}

	It("lets the owner delete a draft", func() {
		Expect(timesheet.DeleteGuard(as(owner), draft)).To(Succeed())
	})

	It("refuses the owner once the timesheet is submitted", func() {
		Expect(timesheet.DeleteGuard(as(owner), submitted)).To(MatchError(timesheet.ErrDeleteSubmitted))
	})

	It("refuses other employees", func() {
		other := as(&coreUser.Actor{ID: "e2", Employee: "EMP-2", Roles: []string{coreUser.RoleEmployee}})
		Expect(timesheet.DeleteGuard(other, draft)).To(MatchError(timesheet.ErrUnauthorized))
	})

	It("lets system managers delete submitted timesheets", func() {
		manager := as(&coreUser.Actor{ID: "sm", Roles: []string{coreUser.RoleSystemManager}})
		Expect(timesheet.DeleteGuard(manager, submitted)).To(Succeed())
	})
})
