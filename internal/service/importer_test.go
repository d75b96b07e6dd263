package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cricket-query/internal/config"
	"cricket-query/internal/database"
	"cricket-query/internal/domain"
	"cricket-query/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type importFixture struct {
	svc     *ImportService
	players *repository.PlayerRepository
	matches *repository.MatchRepository
	dir     string
}

func newImportFixture(t *testing.T) importFixture {
	t.Helper()

	dir := t.TempDir()
	db, err := database.New(&config.Config{DBPath: filepath.Join(dir, "cricket.db")}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	players := repository.NewPlayerRepository(db, zerolog.Nop())
	innings := repository.NewInningsRepository(db, zerolog.Nop())
	matches := repository.NewMatchRepository(db, zerolog.Nop())

	return importFixture{
		svc:     NewImportService(players, innings, matches, zerolog.Nop()),
		players: players,
		matches: matches,
		dir:     dir,
	}
}

func (f importFixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportMatches(t *testing.T) {
	f := newImportFixture(t)
	f.write(t, "test.csv", "url,series_name,season\nhttps://example.com/t1,The Ashes,2023\nhttps://example.com/t2,The Ashes,2023\n")
	f.write(t, "odi.csv", "url,series_name,season\nhttps://example.com/o1,World Cup,2019\n")
	f.write(t, "t20i.csv", "url,series_name,season\n")
	f.write(t, "ipl.csv", "url\nhttps://example.com/i1\n")

	counts, err := f.svc.ImportMatches(context.Background(), f.dir)
	require.NoError(t, err)
	assert.Equal(t, map[domain.Format]int{
		domain.FormatTest: 2,
		domain.FormatODI:  1,
		domain.FormatT20I: 0,
		domain.FormatIPL:  1,
	}, counts)

	tables, err := f.matches.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tables[domain.FormatTest], 2)
	assert.Equal(t, "https://example.com/t1", tables[domain.FormatTest][0].URL)
}

func TestImportMatchesMissingFile(t *testing.T) {
	f := newImportFixture(t)
	f.write(t, "test.csv", "url\nhttps://example.com/t1\n")

	_, err := f.svc.ImportMatches(context.Background(), f.dir)
	require.Error(t, err)

	tables, err := f.matches.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables[domain.FormatTest])
}

func TestImportPlayers(t *testing.T) {
	f := newImportFixture(t)
	players := f.write(t, "players.csv", "player_id,name,full_name,country\n1,Joe Root,Joseph Edward Root,England\n2,Stuart Broad,,England\n")
	batting := f.write(t, "batting.csv", "player_id,runs,format\n1,100,test\n1,20,odi\n2,9,test\n")
	bowling := f.write(t, "bowling.csv", "player_id,wickets\n2,5\n2,3\n")

	got, err := f.svc.ImportPlayers(context.Background(), players, batting, bowling)
	require.NoError(t, err)
	assert.Equal(t, &PlayerImport{Players: 2, Batting: 3, Bowling: 2, Stored: 2}, got)

	// importing the same innings again replaces rather than doubles them
	_, err = f.svc.ImportPlayers(context.Background(), players, batting, bowling)
	require.NoError(t, err)

	snap, err := f.players.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, domain.PlayerStats{Matches: 2, Runs: 120}, snap[1].Stats)
	assert.Equal(t, domain.PlayerStats{Matches: 1, Runs: 9, Wickets: 8}, snap[2].Stats)
	assert.Equal(t, "Joseph Edward Root", snap[1].FullName)
}

func TestImportPlayersOnly(t *testing.T) {
	f := newImportFixture(t)
	players := f.write(t, "players.csv", "player_id,name\n5,Kane Williamson\n")

	got, err := f.svc.ImportPlayers(context.Background(), players, "", "")
	require.NoError(t, err)
	assert.Equal(t, &PlayerImport{Players: 1, Stored: 1}, got)

	_, err = f.svc.ImportPlayers(context.Background(), filepath.Join(f.dir, "nope.csv"), "", "")
	assert.Error(t, err)
}

func TestImportPlayersFailedInningsKeepTotals(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()
	players := f.write(t, "players.csv", "player_id,name\n1,Joe Root\n")
	batting := f.write(t, "batting.csv", "player_id,runs\n1,13000\n")

	_, err := f.svc.ImportPlayers(ctx, players, batting, "")
	require.NoError(t, err)

	unknown := f.write(t, "batting-bad.csv", "player_id,runs\n1,20\n99,7\n")
	_, err = f.svc.ImportPlayers(ctx, players, unknown, "")
	require.Error(t, err)

	snap, err := f.players.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerStats{Matches: 1, Runs: 13000}, snap[1].Stats)
}

func TestImportPlayersReplacesOnlyGivenInnings(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()
	players := f.write(t, "players.csv", "player_id,name\n1,James Anderson\n")
	batting := f.write(t, "batting.csv", "player_id,runs\n1,5\n")
	bowling := f.write(t, "bowling.csv", "player_id,wickets\n1,700\n")

	_, err := f.svc.ImportPlayers(ctx, players, batting, bowling)
	require.NoError(t, err)

	battingOnly := f.write(t, "batting-2.csv", "player_id,runs\n1,20\n")
	_, err = f.svc.ImportPlayers(ctx, players, battingOnly, "")
	require.NoError(t, err)

	snap, err := f.players.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerStats{Matches: 1, Runs: 20, Wickets: 700}, snap[1].Stats)
}

func TestImportMatchesReplacesTables(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()
	f.write(t, "odi.csv", "url\n")
	f.write(t, "t20i.csv", "url\n")
	f.write(t, "ipl.csv", "url\n")

	f.write(t, "test.csv", "url\nhttps://example.com/old-1\nhttps://example.com/old-2\nhttps://example.com/old-3\n")
	_, err := f.svc.ImportMatches(ctx, f.dir)
	require.NoError(t, err)

	f.write(t, "test.csv", "url\nhttps://example.com/new-1\nhttps://example.com/new-2\n")
	counts, err := f.svc.ImportMatches(ctx, f.dir)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.FormatTest])

	records, err := f.matches.LoadFormat(ctx, domain.FormatTest)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "https://example.com/new-1", records[0].URL)
	assert.Equal(t, "https://example.com/new-2", records[1].URL)
}

func TestImportMatchesUnreadableFileWritesNothing(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()
	f.write(t, "test.csv", "url\nhttps://example.com/t1\n")
	f.write(t, "odi.csv", "url\nhttps://example.com/o1\n")
	f.write(t, "t20i.csv", "url\n")
	f.write(t, "ipl.csv", "url\n")
	_, err := f.svc.ImportMatches(ctx, f.dir)
	require.NoError(t, err)

	f.write(t, "test.csv", "url\nhttps://example.com/t2\n")
	f.write(t, "odi.csv", "series_name\nno url column\n")
	_, err = f.svc.ImportMatches(ctx, f.dir)
	require.Error(t, err)

	tables, err := f.matches.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, tables[domain.FormatTest], 1)
	assert.Equal(t, "https://example.com/t1", tables[domain.FormatTest][0].URL)
	require.Len(t, tables[domain.FormatODI], 1)
}
