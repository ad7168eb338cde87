package transcript

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_StartsWithSystemMessage(t *testing.T) {
	s := NewStore("you are an interviewer", true)
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, RoleSystem, msgs[0].Role)
	require.Equal(t, "you are an interviewer", msgs[0].Text)
	require.NotEmpty(t, msgs[0].ID)
}

func TestStore_AppendIsMonotonicAndOrdered(t *testing.T) {
	s := NewStore("sys", true)
	prev := s.Len()
	for i, role := range []Role{RoleUser, RoleAssistant, RoleUser, RoleAssistant} {
		m := s.Append(role, string(rune('a'+i)))
		require.NotEmpty(t, m.ID)
		require.Equal(t, prev+1, s.Len())
		prev = s.Len()
	}
	msgs := s.Messages()
	require.Equal(t, RoleSystem, msgs[0].Role)
	require.Equal(t, []string{"sys", "a", "b", "c", "d"}, texts(msgs))
}

func TestStore_IDsAreUnique(t *testing.T) {
	s := NewStore("sys", false)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		m := s.Append(RoleUser, "x")
		if seen[m.ID] {
			t.Fatalf("duplicate id %s", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestStore_ClearPolicies(t *testing.T) {
	reseeded := NewStore("sys", true)
	reseeded.Append(RoleUser, "hello")
	reseeded.Clear()
	require.Equal(t, 1, reseeded.Len())
	require.Equal(t, RoleSystem, reseeded.Messages()[0].Role)

	emptied := NewStore("sys", false)
	emptied.Append(RoleUser, "hello")
	emptied.Clear()
	require.Zero(t, emptied.Len())
	require.Empty(t, emptied.Render())
}

func TestStore_MessagesIsASnapshot(t *testing.T) {
	s := NewStore("sys", true)
	snap := s.Messages()
	snap[0].Text = "mutated"
	s.Append(RoleUser, "later")
	require.Equal(t, "sys", s.Messages()[0].Text)
	require.Len(t, snap, 1)
}

func TestStore_Render(t *testing.T) {
	s := NewStore("sys", true)
	s.Append(RoleUser, "hi")
	s.Append(RoleAssistant, "hello")
	require.Equal(t, "SYSTEM: sys\nUSER: hi\nASSISTANT: hello", s.Render())
}

func TestStore_ConcurrentAppends(t *testing.T) {
	s := NewStore("sys", true)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(RoleUser, "x")
		}()
	}
	wg.Wait()
	require.Equal(t, 21, s.Len())
}

func texts(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}
