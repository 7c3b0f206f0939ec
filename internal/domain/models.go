package domain

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&Competency{},
		&CompetencyRelationship{},
		&RelationshipVote{},
		&LearningResource{},
		&User{},
		&CompetencyResourceLink{},
	}
}
