package meeting

// ListMeetingsRequest filters the meeting browse listing. Bound from query
// parameters.
type ListMeetingsRequest struct {
	Platform string `query:"platform" validate:"omitempty,oneof=gong zoom"`
	From     string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Search   string `query:"search" validate:"omitempty,max=255"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=200"`
}

// ListStoriesRequest filters the story browse listing. Bound from query
// parameters.
type ListStoriesRequest struct {
	MeetingID     string  `query:"meeting_id" validate:"omitempty,uuid"`
	Theme         string  `query:"theme" validate:"omitempty,max=100"`
	Sentiment     string  `query:"sentiment" validate:"omitempty,oneof=positive negative neutral mixed"`
	MinConfidence float64 `query:"min_confidence" validate:"omitempty,gte=0,lte=1"`
	Page          int     `query:"page" validate:"omitempty,min=1"`
	PageSize      int     `query:"page_size" validate:"omitempty,min=1,max=200"`
}
