package memory_test

import (
	"testing"

	"enkat/pkg/adapters/memory"
	"enkat/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}
