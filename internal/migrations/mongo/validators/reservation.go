package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"student_id",
			"name",
			"date",
			"time_slot",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"student_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 32,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			// YYYY-MM-DD; lexical order must equal calendar order for range queries
			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"time_slot": bson.M{
				"enum": []string{"morning", "afternoon"},
			},

			"status": bson.M{
				"enum": []string{"waiting", "approved", "rejected", "returned"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"returned_at": bson.M{
				"bsonType": "date",
			},

			"overdue_count": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"overdue": bson.M{
				"bsonType": "bool",
			},

			"reject_reason": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},
		},
	},
}
