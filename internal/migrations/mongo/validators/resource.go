package validators

import "go.mongodb.org/mongo-driver/bson"

var ResourceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"max_slots",
			"max_duration_hours",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"max_slots": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  500,
			},

			"max_duration_hours": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  168,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
