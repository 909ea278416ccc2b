package approval_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/frahmantamala/custom-timesheet/internal"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/approval"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
)

var _ = Describe("ReadGuard", func() {
	as := func(actor *coreUser.Actor) context.Context {
		return appErrors.ContextWithActor(context.Background(), actor)
	}
	row := docservice.Record{"name": "A-1", "timesheet": "TS-1", "employee": "EMP-1", "approver": "lead@example.com"}

	It("shows the row to its approver", func() {
		Expect(approval.ReadGuard(as(&coreUser.Actor{ID: "lead@example.com", Employee: "EMP-9"}), row)).To(BeTrue())
	})

	It("hides the row from other approvers and anonymous callers", func() {
		Expect(approval.ReadGuard(as(&coreUser.Actor{ID: "backup@example.com", Employee: "EMP-2"}), row)).To(BeFalse())
		Expect(approval.ReadGuard(as(&coreUser.Actor{ID: "nobody@example.com"}), row)).To(BeFalse())
		Expect(approval.ReadGuard(context.Background(), row)).To(BeFalse())
	})

	It("shows the row to the Administrator", func() {
		Expect(approval.ReadGuard(as(&coreUser.Actor{ID: coreUser.Administrator}), row)).To(BeTrue())
	})
})
