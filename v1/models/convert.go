package models

import "time"

// ToResponse converts a User to its public representation
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Email:     u.Email,
		Name:      u.Name,
		Image:     u.Image,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// ToResponse converts an Item; roomName may be empty
func (i *Item) ToResponse(roomName string) ItemResponse {
	return ItemResponse{
		ItemID:       i.ItemID,
		RoomID:       i.RoomID,
		RoomName:     roomName,
		UserID:       i.UserID,
		Name:         i.Name,
		Brand:        i.Brand,
		ModelNumber:  i.ModelNumber,
		SerialNumber: i.SerialNumber,
		Value:        i.Value,
		Description:  i.Description,
		CreatedAt:    i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    i.UpdatedAt.Format(time.RFC3339),
	}
}

// ToResponse converts a RoomMembership with its preloaded User
func (m *RoomMembership) ToResponse() MembershipResponse {
	return MembershipResponse{
		MembershipID: m.MembershipID,
		RoomID:       m.RoomID,
		UserID:       m.UserID,
		Role:         m.Role,
		User:         m.User.ToResponse(),
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
}

// ToResponse converts a Claim with its preloaded relations
func (c *Claim) ToResponse() ClaimResponse {
	resp := ClaimResponse{
		ClaimID:      c.ClaimID,
		Title:        c.Title,
		Description:  c.Description,
		IncidentDate: c.IncidentDate.Format(time.RFC3339),
		Status:       c.Status,
		CreatedByID:  c.CreatedByID,
		Items:        make([]ItemResponse, 0, len(c.Items)),
		Participants: make([]ParticipantResponse, 0, len(c.Participants)),
		Comments:     make([]CommentResponse, 0, len(c.Comments)),
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    c.UpdatedAt.Format(time.RFC3339),
	}
	for i := range c.Items {
		resp.Items = append(resp.Items, c.Items[i].Item.ToResponse(""))
	}
	for i := range c.Participants {
		p := &c.Participants[i]
		resp.Participants = append(resp.Participants, ParticipantResponse{
			ParticipantID: p.ParticipantID,
			UserID:        p.UserID,
			Role:          p.Role,
			User:          p.User.ToResponse(),
		})
	}
	for i := range c.Comments {
		cm := &c.Comments[i]
		resp.Comments = append(resp.Comments, CommentResponse{
			CommentID: cm.CommentID,
			Body:      cm.Body,
			Author:    cm.Author.ToResponse(),
			CreatedAt: cm.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}
