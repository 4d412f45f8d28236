package store

import (
	"time"

	"github.com/jjenkins/nichefinder/internal/model"
)

var (
	_ SnapshotStore = (*CSVStore)(nil)
	_ SnapshotStore = (*PostgresStore)(nil)
)

func snapshot(date, id, title string, subs, views, videos uint64) model.SnapshotRow {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		panic(err)
	}
	return model.SnapshotRow{
		Date: d,
		ChannelRecord: model.ChannelRecord{
			ChannelID:    id,
			ChannelTitle: title,
			Subscribers:  subs,
			Views:        views,
			Videos:       videos,
		},
	}
}
