package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/mroshb/duo_finder/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

// Profile sheet columns, after a header row:
// id, nickname, discord id, mbti, main role, self communication,
// preferred communication, tank tier, damage tier, support tier
const profileColumns = 10

// RowError reports a sheet row that could not become a profile.
type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Row, e.Err)
}

// ReadProfiles parses every sheet of the workbook into profiles. Invalid
// rows are skipped and reported.
func ReadProfiles(r io.Reader) ([]models.UserProfile, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var profiles []models.UserProfile
	var rowErrs []RowError
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		for i, row := range rows {
			if i == 0 {
				continue
			}
			p, err := profileFromRow(row)
			if err != nil {
				rowErrs = append(rowErrs, RowError{Sheet: sheet, Row: i + 1, Err: err})
				continue
			}
			profiles = append(profiles, p)
		}
	}
	return profiles, rowErrs, nil
}

func profileFromRow(row []string) (models.UserProfile, error) {
	cells := make([]string, profileColumns)
	for i := range cells {
		if i < len(row) {
			cells[i] = strings.TrimSpace(row[i])
		}
	}

	p := models.UserProfile{
		ID:                             cells[0],
		Nickname:                       cells[1],
		DiscordID:                      cells[2],
		MBTI:                           models.MBTI(strings.ToUpper(cells[3])),
		MainRole:                       models.Role(strings.ToUpper(cells[4])),
		SelfCommunicationStyle:         models.SelfCommunication(cells[5]),
		PreferredTeammateCommunication: models.TeammateCommunication(cells[6]),
	}

	var tiers models.RoleTiers
	for i, dst := range []*models.FullTier{&tiers.Tank, &tiers.Damage, &tiers.Support} {
		raw := cells[7+i]
		if raw == "" {
			continue
		}
		tier, err := models.ParseFullTier(raw)
		if err != nil {
			return p, err
		}
		*dst = tier
	}
	p.MaxTiers = datatypes.NewJSONType(tiers)

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
