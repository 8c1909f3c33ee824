package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomsLayout(t *testing.T) {
	t.Parallel()

	rs := Rooms()
	require.Len(t, rs, 5)

	vip, regular := 0, 0
	for _, r := range rs {
		switch r.TableCount {
		case 1:
			vip++
		case 50:
			regular++
		default:
			t.Fatalf("unexpected table count %d for %s", r.TableCount, r.Name)
		}
	}
	assert.Equal(t, 2, vip)
	assert.Equal(t, 3, regular)

	rs[0].Name = "mutated"
	assert.Equal(t, "Avlu Salon", Rooms()[0].Name, "Rooms must return a copy")
}

func TestIsVIP(t *testing.T) {
	t.Parallel()

	assert.True(t, IsVIP("Eblehan VIP Salon", "Masa 1"))
	assert.True(t, IsVIP("Galaaltı VIP Salon", "Masa 1"))
	assert.False(t, IsVIP("Eblehan VIP Salon", "Masa 2"))
	assert.False(t, IsVIP("Avlu Salon", "Masa 1"))
	assert.False(t, IsVIP("Unknown", "Masa 1"))
}

func TestValidTable(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidTable("Avlu Salon", "Masa 50"))
	require.NoError(t, ValidTable("Eblehan VIP Salon", "Masa 1"))
	require.Error(t, ValidTable("Avlu Salon", "Masa 51"))
	require.Error(t, ValidTable("Avlu Salon", "Masa 0"))
	require.Error(t, ValidTable("Avlu Salon", "Table 3"))
	require.Error(t, ValidTable("Eblehan VIP Salon", "Masa 2"))
	require.Error(t, ValidTable("Nowhere", "Masa 1"))
}

func TestTableLabels(t *testing.T) {
	t.Parallel()

	r, ok := RoomByName("Yazıcık Salon")
	require.True(t, ok)
	labels := TableLabels(r)
	require.Len(t, labels, 50)
	assert.Equal(t, "Masa 1", labels[0])
	assert.Equal(t, "Masa 50", labels[49])
}

func TestSessions(t *testing.T) {
	t.Parallel()

	for _, h := range []string{"12:00", "13:00", "14:00", "15:00", "16:00"} {
		assert.Equal(t, Midday, SessionOf(h), h)
		assert.True(t, InSession(h, Midday), h)
		assert.False(t, InSession(h, Evening), h)
	}
	for _, h := range []string{"17:00", "18:00", "19:00", "20:00"} {
		assert.Equal(t, Evening, SessionOf(h), h)
		assert.True(t, InSession(h, Evening), h)
	}

	// Off-grid times fall back to midday but never count as booked hours.
	assert.Equal(t, Midday, SessionOf("21:00"))
	assert.False(t, InSession("21:00", Midday))
	assert.False(t, InSession("12:30", Midday))

	assert.Equal(t, "12:00-16:00", Midday.Window())
	assert.Equal(t, "17:00-20:00", Evening.Window())
	assert.Equal(t, "16:00", Midday.End())
	assert.Equal(t, "20:00", Evening.End())
}
