package notification_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/frahmantamala/custom-timesheet/internal"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
	"github.com/frahmantamala/custom-timesheet/internal/notification"
)

var _ = Describe("ReadGuard", func() {
	todo := docservice.Record{"name": "TD-1", "owner": "lead@example.com", "status": "Open"}

	It("shows a ToDo only to its owner", func() {
		owner := appErrors.ContextWithActor(context.Background(), &coreUser.Actor{ID: "lead@example.com"})
		other := appErrors.ContextWithActor(context.Background(), &coreUser.Actor{ID: "emp@example.com", Employee: "EMP-1"})
		Expect(notification.ReadGuard(owner, todo)).To(BeTrue())
		Expect(notification.ReadGuard(other, todo)).To(BeFalse())
		Expect(notification.ReadGuard(context.Background(), todo)).To(BeFalse())
	})
})
