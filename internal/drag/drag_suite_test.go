package drag_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDrag(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Drag Suite")
}
